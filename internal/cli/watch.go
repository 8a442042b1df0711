package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/app/watch"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail the order and rider-location change feed",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := dialMQ(cfg)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	changeBus, err := bus.NewRabbit(client, logger.New("bus"))
	if err != nil {
		return fmt.Errorf("change bus: %w", err)
	}
	defer func() { _ = changeBus.Close() }()

	return watch.Run(ctx, changeBus, logger.New("watch"))
}
