package app

import (
	"context"

	"github.com/sgftools/ogs-archiver/internal/archive"
	"github.com/sgftools/ogs-archiver/internal/config"
	"github.com/sgftools/ogs-archiver/internal/ogs"
	"github.com/sgftools/ogs-archiver/internal/repository"
	"github.com/sgftools/ogs-archiver/internal/service"
	"go.uber.org/zap"
)

// Options is the parsed CLI request: which users to start following and
// whether to run a fetch pass afterwards.
type Options struct {
	AddUsers []int64
	Fetch    bool
	Limit    int
}

// Run wires the repository, API client and archive together and executes the
// requested operations. Per-game and per-user failures are reported inside
// the fetch pass; only startup and index-save failures surface as errors.
func Run(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, opts Options) error {
	repo, err := repository.NewFileRepository(logger, cfg.Data.Dir)
	if err != nil {
		return err
	}

	client := ogs.NewClient(cfg, logger)
	store := archive.NewStore(logger, cfg.Games.Dir)
	archiver := service.NewArchiver(logger, repo, client, store)

	if len(opts.AddUsers) > 0 {
		if err := archiver.AddUsers(opts.AddUsers); err != nil {
			return err
		}
	}

	if opts.Fetch {
		report, err := archiver.FetchNew(ctx, opts.Limit)
		if err != nil {
			return err
		}

		logger.Infow("fetch pass complete",
			"fetched", report.Fetched,
			"alreadyHave", report.AlreadyHave,
			"failed", report.Failed,
			"usersFailed", report.UsersFailed)
	}

	return nil
}
