package main

import (
	"fmt"
	"os"

	_ "todo/docs"
	"todo/internal/config"
	"todo/internal/logger"
	"todo/internal/repository"
	"todo/internal/server"

	"github.com/spf13/cobra"
)

var Version = "dev"

// @title           To-Do API
// @version         1.0
// @description     Personal task manager with subtasks, attachments, a recycle bin and completion levels.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	rootCmd := &cobra.Command{
		Use:     "todo",
		Short:   "To-do API server",
		Version: Version,
		RunE:    runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending postgres migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.DBDriver == "sqlite" {
				fmt.Println("SQLite schemas are migrated on startup, nothing to do")
				return nil
			}
			if err := repository.Migrate(cfg.MigrationURL()); err != nil {
				return err
			}
			fmt.Println("✅ Migrations applied")
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if err := logger.Init(cfg.LogDevelopment); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	s, err := server.Init(cfg)
	if err != nil {
		return err
	}
	return s.Run()
}
