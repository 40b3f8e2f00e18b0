package service

import (
	"context"
	"fmt"

	"github.com/sgftools/ogs-archiver/internal/archive"
	"github.com/sgftools/ogs-archiver/internal/repository"
	"github.com/sgftools/ogs-archiver/internal/repository/model"
	"go.uber.org/zap"
)

// GameSource lists a player's finished games and downloads their records.
// Implemented by ogs.Client.
type GameSource interface {
	ListGames(ctx context.Context, userID int64) ([]model.GameSummary, error)
	FetchSGF(ctx context.Context, gameID int64) ([]byte, error)
}

// Report summarises one fetch pass. Failed counts games or users that were
// skipped this run and will be retried on the next one.
type Report struct {
	Fetched     int
	AlreadyHave int
	Failed      int
	UsersFailed int
}

type Archiver struct {
	logger *zap.SugaredLogger

	repo   repository.Repository
	source GameSource
	store  *archive.Store
}

func NewArchiver(logger *zap.SugaredLogger, repo repository.Repository, source GameSource, store *archive.Store) *Archiver {
	return &Archiver{
		logger: logger,

		repo:   repo,
		source: source,
		store:  store,
	}
}

// AddUsers adds ids to the followed list and persists the index once.
// Already followed ids are left alone.
func (a *Archiver) AddUsers(ids []int64) error {
	for _, id := range ids {
		if a.repo.AddUser(id) {
			a.logger.Infow("following user", "userId", id)
		} else {
			a.logger.Infow("already following user", "userId", id)
		}
	}

	if err := a.repo.Save(); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	return nil
}

// FetchNew runs one fetch pass over every followed user: list the user's
// games, diff the full list against the known set preserving the remote
// (newest first) order, cap at limit if positive, download and record each
// unseen game. Failures are scoped to one game or user; only a failed index
// save aborts the pass. The index is saved once at the end.
func (a *Archiver) FetchNew(ctx context.Context, limit int) (Report, error) {
	var report Report

	for _, user := range a.repo.Users() {
		games, err := a.source.ListGames(ctx, user)
		if err != nil {
			a.logger.Warnw("failed to list games, skipping user", "userId", user, "error", err)
			report.UsersFailed++
			if ctx.Err() != nil {
				break
			}
			continue
		}

		fresh := make([]model.GameSummary, 0, len(games))
		for _, g := range games {
			if !a.repo.IsKnown(user, g.ID) {
				fresh = append(fresh, g)
			}
		}
		if limit > 0 && len(fresh) > limit {
			fresh = fresh[:limit]
		}

		a.logger.Infow("fetching new games", "userId", user, "remote", len(games), "new", len(fresh))

		for _, g := range fresh {
			if a.store.Exists(user, g) {
				// Already on disk from an interrupted run; just index it.
				a.repo.RecordGame(user, g)
				report.AlreadyHave++
				continue
			}

			data, err := a.source.FetchSGF(ctx, g.ID)
			if err != nil {
				a.logger.Warnw("failed to fetch game, skipping", "userId", user, "gameId", g.ID, "error", err)
				report.Failed++
				continue
			}

			if err := a.store.Put(user, g, data); err != nil {
				a.logger.Warnw("failed to store game, skipping", "userId", user, "gameId", g.ID, "error", err)
				report.Failed++
				continue
			}

			a.repo.RecordGame(user, g)
			report.Fetched++
		}
	}

	if err := a.repo.Save(); err != nil {
		return report, fmt.Errorf("failed to save index: %w", err)
	}

	return report, nil
}
