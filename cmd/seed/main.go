// Command seed creates an administrator and a handful of sample gyms for
// local development. It is safe to run more than once.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
	"github.com/gymcheck/checkin-api/internal/core/service"
	"github.com/gymcheck/checkin-api/internal/infrastructure/config"
	"github.com/gymcheck/checkin-api/internal/infrastructure/crypto"
	"github.com/gymcheck/checkin-api/internal/infrastructure/db/mongo"
	"github.com/gymcheck/checkin-api/pkg/logger"
)

type sampleGym struct {
	title     string
	phone     string
	latitude  float64
	longitude float64
}

var sampleGyms = []sampleGym{
	{"JavaScript Gym", "27 3333-0001", -20.245208, -40.264793},
	{"TypeScript Gym", "27 3333-0002", -20.246012, -40.265533},
	{"Go Gym", "27 3333-0003", -20.252110, -40.270021},
	{"Far Away Gym", "27 3333-0004", -19.936348, -40.404829},
}

func main() {
	email := flag.String("admin-email", envOr("SEED_ADMIN_EMAIL", "admin@example.com"), "administrator e-mail")
	password := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "administrator password (min 6 chars)")
	withGyms := flag.Bool("gyms", true, "create sample gyms")
	flag.Parse()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed", Env: cfg.Env})

	if err := seed(context.Background(), cfg, log, *email, *password, *withGyms); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func seed(ctx context.Context, cfg *config.Config, log zerolog.Logger, email, password string, withGyms bool) error {
	if len(password) < 6 {
		return errors.New("admin password must have at least 6 characters (SEED_ADMIN_PASSWORD)")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongo.NewUserRepository(db)
	gyms := mongo.NewGymRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, gyms, mongo.NewCheckInRepository(db)); err != nil {
		return err
	}

	if err := seedAdmin(ctx, users, log, email, password); err != nil {
		return err
	}
	if !withGyms {
		return nil
	}

	svc := service.NewGymService(gyms)
	for _, g := range sampleGyms {
		existing, err := gyms.SearchByTitle(ctx, g.title, 1)
		if err != nil {
			return err
		}
		if hasTitle(existing, g.title) {
			log.Info().Str("title", g.title).Msg("gym already exists, skipping")
			continue
		}

		phone := g.phone
		created, err := svc.Create(ctx, ports.CreateGymInput{
			Title:     g.title,
			Phone:     &phone,
			Latitude:  g.latitude,
			Longitude: g.longitude,
		})
		if err != nil {
			return err
		}
		log.Info().Str("gym_id", created.ID).Str("title", created.Title).Msg("gym created")
	}
	return nil
}

// seedAdmin writes through the repository because registration always
// creates members.
func seedAdmin(ctx context.Context, users *mongo.UserRepository, log zerolog.Logger, email, password string) error {
	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Info().Str("email", email).Msg("admin already exists, skipping")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := crypto.NewBcryptHasher(crypto.DefaultCost).Hash(password)
	if err != nil {
		return err
	}

	admin, err := users.Create(ctx, &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin created")
	return nil
}

func hasTitle(gyms []*domain.Gym, title string) bool {
	for _, g := range gyms {
		if g.Title == title {
			return true
		}
	}
	return false
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
