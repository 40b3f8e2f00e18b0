package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/sgftools/ogs-archiver/internal/repository/model"
	"go.uber.org/zap"
)

// Store writes SGF records under <dir>/<userID>/. Files are immutable once
// written.
type Store struct {
	logger *zap.SugaredLogger
	dir    string
}

func NewStore(logger *zap.SugaredLogger, dir string) *Store {
	return &Store{
		logger: logger,
		dir:    dir,
	}
}

// Path returns the archive location for a game. The name is deterministic
// from the user id and the game summary; summaries carry pre-sanitized names.
func (s *Store) Path(userID int64, game model.GameSummary) string {
	name := fmt.Sprintf("%d %s [%s vs %s].sgf", game.ID, game.Name, game.Black.Name, game.White.Name)
	return filepath.Join(s.dir, strconv.FormatInt(userID, 10), name)
}

func (s *Store) Exists(userID int64, game model.GameSummary) bool {
	_, err := os.Stat(s.Path(userID, game))
	return err == nil
}

// Put writes a game record atomically: the body goes to a temp file in the
// target directory which is then renamed into place.
func (s *Store) Put(userID int64, game model.GameSummary, data []byte) error {
	path := s.Path(userID, game)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create games dir: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), ".sgf."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sgf: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to place sgf: %w", err)
	}

	s.logger.Infow("saved game", "path", path)
	return nil
}
