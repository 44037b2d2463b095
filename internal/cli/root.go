package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/missioncontrol/internal/config"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/metrics"
	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

const configDirName = ".missioncontrol"

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	metricsAddr  string
	appConfig    *config.Config
	appLogger    *logger.Logger
	apiClient    *client.Client
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "missioncontrol",
		Short: "Mission Control CLI - sign in and watch your deployments",
		Long: `Mission Control CLI signs in against the Mission Control backend,
walks through the mock OAuth consent screen and shows the live deployment
dashboard, either as one-shot commands or as an interactive terminal UI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Config commands work without a reachable backend
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			return initClient(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.missioncontrol/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("metrics_addr", rootCmd.PersistentFlags().Lookup("metrics-addr"))

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newOAuthCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MISSIONCONTROL")
	viper.AutomaticEnv()

	viper.SetDefault("output", "table")

	_ = viper.ReadInConfig()
}

// initClient layers flags and the config file over the environment
// configuration, then builds the logger and the API client.
func initClient(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if v := viper.GetString("server_url"); v != "" {
		cfg.Client.BaseURL = v
		if os.Getenv("SOCIAL_BASE_URL") == "" {
			cfg.Client.SocialBaseURL = v
		}
	}
	if serverURL != "" {
		cfg.Client.BaseURL = serverURL
		if os.Getenv("SOCIAL_BASE_URL") == "" {
			cfg.Client.SocialBaseURL = serverURL
		}
	}
	if v := viper.GetString("social_url"); v != "" {
		cfg.Client.SocialBaseURL = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		cfg.Client.Timeout = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("metrics_addr"); v != "" {
		cfg.Metrics.Addr = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appConfig = cfg
	appLogger = logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	apiClient = client.NewClient(client.Config{
		BaseURL:       cfg.Client.BaseURL,
		SocialBaseURL: cfg.Client.SocialBaseURL,
		Timeout:       cfg.Client.Timeout,
		Observer:      metrics.ObserveRequest,
	})

	if cfg.Metrics.Addr != "" {
		startMetricsServer(ctx, cfg.Metrics.Addr)
	}
	return nil
}

func startMetricsServer(ctx context.Context, addr string) {
	srv := metrics.NewServer(addr)
	go func() {
		appLogger.With("addr", addr).Info("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.ErrorWithErr(err, "Metrics server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}
