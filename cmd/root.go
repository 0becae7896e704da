package cmd

import (
	"os"
	"time"

	coreconfig "github.com/AzielCF/az-press/core/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "az-press",
	Short: "Blog backend with a cache-aside layer",
	Long: `az-press serves articles, threaded comments and user accounts over HTTP.
Reads go through a TTL cache (in-process or Valkey), view and like counters live
in the cache, and logged-out tokens are kept in a revocation registry.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	// Load environment variables first
	coreconfig.LoadDotEnv(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()
}

func initFlags() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("port", "p", "", "change port number with --port <number> | example: --port=8080")
	flags.BoolP("debug", "d", false, "hide or displaying log with --debug <true/false> | example: --debug=true")
	flags.String("base-path", "", `base path for subpath deployment --base-path <string> | example: --base-path="/blog"`)
	flags.String("db-driver", "", `database driver --db-driver <sqlite|postgres>`)
	flags.String("db-name", "", `sqlite file or postgres database --db-name <string> | example: --db-name="storages/press.db"`)
	flags.String("cache-backend", "", `cache backend --cache-backend <memory|valkey>`)
	flags.String("valkey-address", "", `valkey address when --cache-backend=valkey | example: --valkey-address="localhost:6379"`)

	// Flags override the environment; the env keys are the lower-cased variable names.
	for key, flag := range map[string]string{
		"app_port":       "port",
		"app_debug":      "debug",
		"app_base_path":  "base-path",
		"db_driver":      "db-driver",
		"db_name":        "db-name",
		"cache_backend":  "cache-backend",
		"valkey_address": "valkey-address",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			logrus.Fatalf("failed to bind flag %s: %v", flag, err)
		}
	}
}

// initConfig loads the configuration and applies logging settings.
func initConfig() error {
	cfg, err := coreconfig.LoadFrom(envWithFlags())
	if err != nil {
		return err
	}
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugf("[CONFIG] %v", coreconfig.GetAllSettings())
	return nil
}

// envWithFlags returns the global viper, which has the flags bound, reading the
// environment as well.
func envWithFlags() *viper.Viper {
	v := viper.GetViper()
	v.AutomaticEnv()
	return v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
