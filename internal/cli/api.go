package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/app/api"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the order lifecycle HTTP API",
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("api")

	conn, err := connectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer conn.Close()

	client, err := dialMQ(cfg)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	changeBus, err := bus.NewRabbit(client, logger.New("bus"))
	if err != nil {
		return fmt.Errorf("change bus: %w", err)
	}
	defer func() { _ = changeBus.Close() }()

	sink, err := metrics.NewSink(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	srv := api.New(store.NewPG(conn), changeBus, api.NewAuth(cfg.Auth.JWTSecret), log, sink)
	return srv.Run(ctx, cfg.HTTP.Port)
}
