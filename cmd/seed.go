package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"gymclass/internal/config"
	domain "gymclass/internal/domain/schedule"
	"gymclass/internal/infrastructure/database"
	"gymclass/internal/infrastructure/repository"
	"gymclass/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed development class sessions",
	Long:  "Insert a handful of upcoming class sessions for local development",
	Run:   runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) {
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

	sessions := repository.NewSessionRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	seeds := []domain.ClassSession{
		{Name: "Morning Yoga", Category: "yoga", Capacity: 15, StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(25 * time.Hour)},
		{Name: "HIIT Express", Category: "cardio", Capacity: 10, StartsAt: now.Add(26 * time.Hour), EndsAt: now.Add(27 * time.Hour)},
		{Name: "Spin Class", Category: "cycling", Capacity: 20, StartsAt: now.Add(48 * time.Hour), EndsAt: now.Add(49 * time.Hour)},
		{Name: "Powerlifting Basics", Category: "strength", Capacity: 8, StartsAt: now.Add(50 * time.Hour), EndsAt: now.Add(52 * time.Hour)},
	}

	for i := range seeds {
		s := &seeds[i]
		s.SessionID = uuid.New()
		s.TrainerID = uuid.New()
		s.Active = true
		s.Version = 1

		if err := sessions.Create(ctx, s); err != nil {
			logger.Error("Failed to seed session %q: %v", s.Name, err)
			os.Exit(1)
		}
		fmt.Printf("Seeded session %s (%s, capacity %d)\n", s.SessionID, s.Name, s.Capacity)
	}
}
