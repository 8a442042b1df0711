// Package cli wires the pizza-zone subcommands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/config"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/db"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/mq"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pizza-zone",
	Short: "Pizza Zone order lifecycle and dispatch services",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (default: config.yaml)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (config.App, error) {
	path := cfgPath
	if path == "" {
		p, err := config.FindConfig()
		if err != nil {
			return config.App{}, err
		}
		path = p
	}
	return config.Load(path)
}

func connectDB(ctx context.Context, cfg config.App) (*db.Conn, error) {
	d := cfg.Database
	return db.Connect(ctx, d.Host, d.Port, d.User, d.Pass, d.Name)
}

func dialMQ(cfg config.App) (*mq.Client, error) {
	r := cfg.Rabbit
	return mq.Dial(r.Host, r.Port, r.User, r.Pass)
}
