package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sgftools/ogs-archiver/internal/app"
	"github.com/sgftools/ogs-archiver/internal/config"
	"github.com/sgftools/ogs-archiver/internal/repository"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	addUsers := pflag.Int64Slice("add", nil, "player ids to add to the followed list")
	fetch := pflag.BoolP("fetch", "f", false, "fetch new games for all followed users")
	limit := pflag.IntP("limit", "l", 0, "max new games to fetch per user this pass (0 = unlimited)")
	configPath := pflag.String("config", "", "path to a config file")
	pflag.Parse()

	if len(*addUsers) == 0 && !*fetch {
		fmt.Fprintln(os.Stderr, "nothing to do: pass --add and/or --fetch")
		pflag.Usage()
		os.Exit(2)
	}
	if pflag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", pflag.Args())
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	unsugared, err := createLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	logger := unsugared.Sugar()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		AddUsers: *addUsers,
		Fetch:    *fetch,
		Limit:    *limit,
	}

	if err := app.Run(ctx, cfg, logger, opts); err != nil {
		if errors.Is(err, repository.ErrCorruptIndex) {
			logger.Errorw("the index file could not be read; remove or repair it and rerun", "error", err)
		} else {
			logger.Errorw("run failed", "error", err)
		}
		os.Exit(1)
	}
}

func createLogger(cfg *config.Config) (logger *zap.Logger, err error) {
	if cfg.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger, nil
}
