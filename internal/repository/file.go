package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/sgftools/ogs-archiver/internal/repository/model"
	"go.uber.org/zap"
)

const indexFileName = "index.json"

type fileRepository struct {
	logger *zap.SugaredLogger
	dir    string

	users []int64
	games map[int64][]model.GameSummary
	known map[int64]map[int64]struct{}
}

// indexDocument is the on-disk shape of the index. JSON object keys have to
// be strings, so user ids are decimal strings in the games map.
type indexDocument struct {
	Users []int64                        `json:"users"`
	Games map[string][]model.GameSummary `json:"games"`
}

// NewFileRepository loads the index from <dir>/index.json. A missing file is
// treated as an empty index; an unreadable one fails with ErrCorruptIndex.
func NewFileRepository(logger *zap.SugaredLogger, dir string) (Repository, error) {
	repo := &fileRepository{
		logger: logger,
		dir:    dir,
		games:  make(map[int64][]model.GameSummary),
		known:  make(map[int64]map[int64]struct{}),
	}

	if err := repo.load(); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *fileRepository) load() error {
	path := filepath.Join(r.dir, indexFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debugw("no index file, starting empty", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read index %s: %w", path, err)
	}

	var doc indexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w (%s): %s", ErrCorruptIndex, path, err)
	}

	r.users = doc.Users
	for key, games := range doc.Games {
		user, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("%w (%s): bad user key %q", ErrCorruptIndex, path, key)
		}

		r.games[user] = games
		set := make(map[int64]struct{}, len(games))
		for _, g := range games {
			set[g.ID] = struct{}{}
		}
		r.known[user] = set
	}

	return nil
}

func (r *fileRepository) AddUser(id int64) bool {
	for _, existing := range r.users {
		if existing == id {
			return false
		}
	}

	r.users = append(r.users, id)
	return true
}

func (r *fileRepository) Users() []int64 {
	users := make([]int64, len(r.users))
	copy(users, r.users)
	return users
}

func (r *fileRepository) KnownGames(user int64) []model.GameSummary {
	games := make([]model.GameSummary, len(r.games[user]))
	copy(games, r.games[user])
	return games
}

func (r *fileRepository) IsKnown(user int64, gameID int64) bool {
	_, ok := r.known[user][gameID]
	return ok
}

func (r *fileRepository) RecordGame(user int64, game model.GameSummary) bool {
	if r.IsKnown(user, game.ID) {
		return false
	}

	if r.known[user] == nil {
		r.known[user] = make(map[int64]struct{})
	}
	r.known[user][game.ID] = struct{}{}
	r.games[user] = append(r.games[user], game)
	return true
}

func (r *fileRepository) Save() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index dir: %w", err)
	}

	doc := indexDocument{
		Users: r.users,
		Games: make(map[string][]model.GameSummary, len(r.games)),
	}
	for user, games := range r.games {
		doc.Games[strconv.FormatInt(user, 10)] = games
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	// Write to a temp file in the same directory and rename it over the
	// index so a crash mid-write never corrupts the previous state.
	tmp := filepath.Join(r.dir, fmt.Sprintf(".%s.%s.tmp", indexFileName, uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	path := filepath.Join(r.dir, indexFileName)
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace index: %w", err)
	}

	r.logger.Debugw("saved index", "path", path, "users", len(r.users))
	return nil
}
