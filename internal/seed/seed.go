// Package seed inserts the reference data a fresh database needs.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// generatedPasswordLength is used when no bootstrap admin password is configured
const generatedPasswordLength = 16

// Options controls the first-run administrator account
type Options struct {
	AdminUsername string
	// AdminPassword is generated and logged once when empty
	AdminPassword string
}

// CreateDefaultData inserts the missing tariffs and, on a database without
// any staff account, an administrator that must change its password at first login.
func CreateDefaultData(ctx context.Context, q db.Querier, opts Options, lgr zerolog.Logger) error {
	repos := repositories.NewRepositories(q)
	var finalErr error

	added, err := repos.TariffRepository.InsertMissing(ctx, models.DefaultTariffs)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding tariffs")
		finalErr = errors.Join(finalErr, err)
	} else if added > 0 {
		lgr.Info().Int64("tariffs", added).Msg("Default tariffs created")
	}

	if err := createAdmin(ctx, repos.UserRepository, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating bootstrap admin")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createAdmin(ctx context.Context, users *repositories.UserRepository, opts Options, lgr zerolog.Logger) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := opts.AdminUsername
	if username == "" {
		username = "admin"
	}

	password := opts.AdminPassword
	generated := password == ""
	if generated {
		if password, err = auth.GeneratePassword(generatedPasswordLength); err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               models.RoleAdmin,
		MustChangePassword: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	event := lgr.Warn().Str("username", username)
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("Bootstrap admin account created; change its password at first login")
	return nil
}
