package cmd

import (
	"fmt"
	"os"

	"gymclass/internal/config"
	"gymclass/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gymclass",
	Short: "Gym Class Capacity Management Service",
	Long: `A gym class scheduling and capacity management service built with Go.
This service provides:
- Booking ledger with a hard per-session capacity invariant
- FIFO waitlist with automatic promotion on freed seats
- Attendance tracking (check-in, no-show, cancellation, reinstatement)
- Roster projection for front-desk staff
- Redis-mirrored occupancy for fast schedule listings
Example usage:
  gymclass server --port 8080    # Start the HTTP API
  gymclass migrate up            # Apply database migrations
  gymclass sweep                 # Expire stale waitlist entries once`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		if err := logger.InitWithConfig(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output); err != nil {
			logger.Init(verbose)
			logger.Warn("Failed to initialize logger with config, using fallback: %v", err)
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/gymclass.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigType("yaml")
		viper.SetConfigName("gymclass")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.Init()
}
