package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"gymclass/internal/api/router"
	"gymclass/internal/config"
	"gymclass/internal/infrastructure/database"
	"gymclass/pkg/logger"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire stale waitlist entries once",
	Long: `Run a single waitlist sweep: WAITING entries of sessions that have
already started are flipped to EXPIRED. The server runs the same sweep
periodically when schedule.expire_waitlist_at_start is enabled; this
command exists for cron-style deployments and manual cleanup.`,
	Run: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) {
	cfg := config.Get()

	db, err := database.NewConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	components, err := router.New(db)
	if err != nil {
		logger.Error("Failed to build services: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := components.Scheduling.ExpireStaleWaitlist(ctx)
	if err != nil {
		logger.Error("Waitlist sweep failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Sweep complete: %d waitlist entries expired\n", n)
}
