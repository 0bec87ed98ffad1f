package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/logger"
)

const app = "hiring-assistant"

var (
	zlog *zap.Logger

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "hiring-assistant scores CVs against job offers and prepares pre-interviews",
		SilenceUsage: true,
		RunE:         runServe,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			appConfig := config.LoadAppConfig()
			zlog, err = logger.New(appConfig.LogJSON, appConfig.LogDebug)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(zlog)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = zlog.Sync()
		},
	}
)

func init() {
	// .env must be loaded before the first config lookup.
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	env := config.Env()
	if err := env.BindPFlag("LOG_DEBUG", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := env.BindPFlag("LOG_JSON", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, reindexCmd)
}
