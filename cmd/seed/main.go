package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"favsvc/internal/auth"
	"favsvc/internal/config"
	"favsvc/internal/db"
	apperrors "favsvc/internal/errors"
	"favsvc/internal/logger"
	"favsvc/internal/repository"
	"favsvc/internal/service"
)

const usage = `usage: seed <command> [flags]

commands:
  create -username NAME -password PASS [-display NAME]
  delete -username NAME
  demo   create the demo account alice/secret123 if missing
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hasher, err := auth.NewPasswordHasher(auth.DefaultArgon2Params)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher init")
	}
	users := service.NewUserService(repository.NewUserRepository(gormDB), hasher)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout)
	defer cancel()

	if err := run(ctx, users, os.Args[1], os.Args[2:]); err != nil {
		cancel()
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("seed failed")
	}
}

func run(ctx context.Context, users service.UserService, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")
	display := fs.String("display", "", "optional display name")

	switch command {
	case "create":
		if err := fs.Parse(args); err != nil {
			return err
		}
		user, err := users.CreateUser(ctx, *username, *password, *display)
		if err != nil {
			return err
		}
		log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user created")

	case "delete":
		if err := fs.Parse(args); err != nil {
			return err
		}
		err := users.DeleteUser(ctx, *username)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			log.Warn().Str("username", *username).Msg("no such user")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Str("username", *username).Msg("user and favorites deleted")

	case "demo":
		user, created, err := users.EnsureUser(ctx, "alice", "secret123", "Alice")
		if err != nil {
			return err
		}
		if created {
			log.Info().Uint64("user_id", user.ID).Msg("demo user alice created")
		} else {
			log.Info().Uint64("user_id", user.ID).Msg("demo user alice already exists")
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
