package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/ssobridge/internal/config"
	"github.com/dropDatabas3/ssobridge/internal/http/server"
	"github.com/dropDatabas3/ssobridge/internal/oauth"
	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	"github.com/dropDatabas3/ssobridge/internal/store/migrate"
	"github.com/dropDatabas3/ssobridge/internal/util"
)

func main() {
	var (
		configPath string
		envFile    string
	)

	root := &cobra.Command{
		Use:           "ssobridge",
		Short:         "Puente OAuth2/OIDC multi-provider",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" && fileExists(envFile) {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("dotenv %s: %w", envFile, err)
				}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "ruta a config.yaml (vacío = defaults + env)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "ruta a .env (se carga si existe)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			initLogger(cfg)
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.Build(ctx, cfg, server.Options{})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Aplica las migraciones embebidas del driver configurado",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			initLogger(cfg)
			defer func() { _ = logger.Sync() }()

			action := "up"
			steps := 0
			if len(args) >= 1 {
				action = args[0]
			}
			if len(args) >= 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps inválido: %q", args[1])
				}
				steps = n
			}
			return migrate.Run(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN, action, steps)
		},
	}

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Lista los providers soportados y cuáles tienen credenciales estáticas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			registry := oauth.DefaultRegistry()
			fallback := cfg.FallbackCredentials()
			for _, slug := range registry.Slugs() {
				kind := "generic"
				if oauth.IsDedicated(slug) {
					kind = "dedicated"
				}
				line := fmt.Sprintf("%-16s %s", slug, kind)
				if creds, ok := fallback[slug]; ok {
					line += "  client_id=" + util.MaskClientID(creds.ClientID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd, providersCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return config.Load(path)
}

func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Format:      cfg.Log.Format,
		Level:       cfg.Log.Level,
		ServiceName: "ssobridge",
	})
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
