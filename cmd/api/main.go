package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/profile"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "post-api",
		Short: "HTTP API for user signup, login and per-user posts",
		// serve is the default action
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, false)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("db-driver", "mysql", `database driver, "mysql" or "sqlite"`)
	rootCmd.PersistentFlags().String("db-dsn", "", "database source name, overrides the MYSQL_* settings")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	for flag, key := range map[string]string{
		"mode":      "mode",
		"db-driver": "db_driver",
		"db-dsn":    "db_dsn",
		"log-level": "log_level",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())
}

// loadProfile reads flags, environment and the optional config file
func loadProfile() (*profile.Profile, error) {
	return profile.Load(viper.GetViper(), configFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := logging.NewLogger(os.Stderr, "info")
		logger.WithError(err).Error("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
