package main

import (
	"context"
	"os"

	"github.com/marcelsud/personal-library/book"
	"github.com/marcelsud/personal-library/config"
	"github.com/marcelsud/personal-library/internal/cli"
	"github.com/marcelsud/personal-library/internal/storage"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	open := func(ctx context.Context) (book.UseCase, func(context.Context) error, error) {
		cfg, err := config.GetConfig()
		if err != nil {
			return nil, nil, err
		}
		repo, err := storage.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return book.NewService(repo), repo.Close, nil
	}

	err := cli.NewRootCommand(open).Execute()
	code := cli.GetExitCode(err)
	if code == cli.ExitCommandError {
		logger.Error().Err(err).Msg("command failed")
	}
	os.Exit(code)
}
