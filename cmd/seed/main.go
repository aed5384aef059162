package main

import (
	"context"
	"math/rand/v2"
	"os"
	"time"

	"etm/config"
	"etm/di"
	"etm/internal/seed"
	"etm/shared/logger"
	"etm/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const closeTimeout = 10 * time.Second

func main() {
	counts := seed.Counts{}

	var randomSeed uint64

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample data",
		Long:  `Create demo employees, trips and bookings for development and testing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()

			logger.InitLogger(cfg)
			logger.SetLogLevel(cfg)

			if err := timezone.Init(cfg.App.Timezone); err != nil {
				return err
			}

			seeder := di.InitializeSeeder()

			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
				defer cancel()

				seeder.Close(ctx)
			}()

			if err := seeder.Auth.SeedAdmin(cmd.Context()); err != nil {
				return err
			}

			if randomSeed == 0 {
				randomSeed = uint64(time.Now().UnixNano())
			}

			res, err := seed.New(
				seeder.Employee,
				seeder.Trip,
				seeder.Booking,
				rand.New(rand.NewPCG(randomSeed, randomSeed)),
				timezone.Now,
			).Run(cmd.Context(), counts)
			if err != nil {
				return err
			}

			log.Info().
				Int("employees", res.Employees).
				Int("trips", res.Trips).
				Int("bookings", res.Bookings).
				Int("skipped", res.Skipped).
				Uint64("seed", randomSeed).
				Msg("Seeding completed")

			return nil
		},
	}

	rootCmd.Flags().IntVar(&counts.Employees, "employees", 30, "number of employees to create")
	rootCmd.Flags().IntVar(&counts.Trips, "trips", 15, "number of trips to create")
	rootCmd.Flags().IntVar(&counts.Bookings, "bookings", 80, "number of bookings to attempt")
	rootCmd.Flags().Uint64Var(&randomSeed, "seed", 0, "random seed, 0 picks one from the clock")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to seed database")
		os.Exit(1)
	}
}
