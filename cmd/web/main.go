package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	audithandler "github.com/netops-tools/netaudit/pkg/handlers/audit"
	"github.com/netops-tools/netaudit/pkg/server"
	"github.com/netops-tools/netaudit/pkg/services/audit"
	"github.com/netops-tools/netaudit/pkg/services/compliance"
	"github.com/netops-tools/netaudit/pkg/services/rules"
	"github.com/netops-tools/netaudit/pkg/store/configsource"
	"github.com/netops-tools/netaudit/pkg/store/duckdb"
	"github.com/netops-tools/netaudit/pkg/store/duckdb/history"
)

var (
	rulesPath   string
	historyPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the compliance auditor",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&rulesPath, "rules", "r", "",
		"Path to a YAML rule file (default is the built-in rule set)")
	rootCmd.Flags().StringVar(&historyPath, "history-db", "netaudit.db",
		"Path to the audit-history database")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var registry rules.Registry
	var err error
	if rulesPath == "" {
		registry = rules.NewDefaultRegistry()
	} else {
		registry, err = rules.LoadFile(rulesPath)
		if err != nil {
			return fmt.Errorf("failed to load rule file: %w", err)
		}
		logger.Info().Str("path", rulesPath).Msg("rule file loaded")
	}

	engine, err := compliance.NewEngine(registry)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	logger.Info().Int("rules", len(engine.Rules())).Msg("compliance engine ready")

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: historyPath})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	hist, err := history.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}

	sim := configsource.NewSimulator()
	auditor := audit.NewAuditor(audit.Options{
		Source:  sim,
		Engine:  engine,
		History: hist,
	})

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Audit: audithandler.NewHandler(sim, engine, auditor, hist),
		},
	})

	return webAPI.Start()
}
