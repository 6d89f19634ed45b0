package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"booksite-backend/pkg/container"
)

func main() {
	// Load .env for local use; production relies on the real environment
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "authorctl:", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		usage(os.Stderr)
		return flag.ErrHelp
	}

	c, err := container.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	a := &app{
		svc:     c.AuthorService,
		migrate: c.DB.Migrate,
		out:     os.Stdout,
	}
	return a.dispatch(ctx, args)
}
