// Command registrarctl runs administrative tasks against the registrar database.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/yigit/registrar/internal/app/migrations"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/bootstrap"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/seed"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("registrarctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "registrarctl",
		Usage: "administer the registrar database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yaml",
				Value:   bootstrap.DefaultConfigPath,
				EnvVars: []string{"REGISTRAR_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending schema migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "status", Usage: "only list pending migrations"},
				},
				Action: withDB(migrate),
			},
			{
				Name:   "seed",
				Usage:  "insert missing tariffs and the first admin account",
				Action: withDB(seedData),
			},
			{
				Name:  "create-user",
				Usage: "create a staff account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Value: "secretary", Usage: "admin, secretary or accountant"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "generated and printed when empty"},
				},
				Action: withDB(createUser),
			},
			{
				Name:  "reset-password",
				Usage: "set a new password that must be changed at next login",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "generated and printed when empty"},
				},
				Action: withDB(resetPassword),
			},
		},
	}
}

// env is what every command receives once connected
type env struct {
	cfg    *config.Config
	db     *db.PostgresDB
	logger zerolog.Logger
}

func withDB(action func(*cli.Context, *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
		if err != nil {
			return err
		}

		pdb, err := db.NewPostgresDB(c.Context, cfg)
		if err != nil {
			return err
		}
		defer pdb.Close()

		return action(c, &env{cfg: cfg, db: pdb, logger: lgr})
	}
}

func migrate(c *cli.Context, e *env) error {
	m := migrations.NewMigrator(e.db)
	if c.Bool("status") {
		pending, err := m.Pending(c.Context)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(c.App.Writer, "schema is up to date")
			return nil
		}
		fmt.Fprintln(c.App.Writer, "pending:", strings.Join(pending, ", "))
		return nil
	}

	applied, err := m.Up(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d migration(s) applied\n", applied)
	return nil
}

func seedData(c *cli.Context, e *env) error {
	return seed.CreateDefaultData(c.Context, e.db.Pool, bootstrap.SeedOptions(e.cfg), e.logger)
}

func authService(e *env) *services.AuthService {
	return services.NewAuthService(repositories.NewUserRepository(e.db.Pool), bootstrap.NewJWTService(e.cfg), e.logger)
}

// passwordOrGenerate returns the --password flag, or a fresh password and true
func passwordOrGenerate(c *cli.Context) (string, bool, error) {
	if p := c.String("password"); p != "" {
		return p, false, nil
	}
	p, err := auth.GeneratePassword(16)
	return p, true, err
}

func createUser(c *cli.Context, e *env) error {
	password, generated, err := passwordOrGenerate(c)
	if err != nil {
		return err
	}

	user, err := authService(e).CreateUser(c.Context, &dto.CreateUserRequest{
		Username: c.String("username"),
		Password: password,
		Role:     c.String("role"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "created %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
	if generated {
		fmt.Fprintf(c.App.Writer, "temporary password: %s\n", password)
	}
	return nil
}

func resetPassword(c *cli.Context, e *env) error {
	password, generated, err := passwordOrGenerate(c)
	if err != nil {
		return err
	}

	if err := authService(e).ResetPassword(c.Context, c.String("username"), password); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "password reset for %s\n", c.String("username"))
	if generated {
		fmt.Fprintf(c.App.Writer, "temporary password: %s\n", password)
	}
	return nil
}
