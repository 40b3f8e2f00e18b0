package repository

import (
	"errors"

	"github.com/sgftools/ogs-archiver/internal/repository/model"
)

// ErrCorruptIndex is returned when the index file exists but cannot be
// parsed. It is unrecoverable: the operator has to remove or repair the file.
var ErrCorruptIndex = errors.New("index file is corrupt")

type Repository interface {
	// AddUser inserts an id into the followed list. It reports whether the
	// id was newly added; adding an already followed user is a no-op.
	AddUser(id int64) bool
	// Users returns the followed user ids in the order they were added.
	Users() []int64

	// KnownGames returns the games already archived for a user, newest first.
	KnownGames(user int64) []model.GameSummary
	IsKnown(user int64, gameID int64) bool
	// RecordGame adds a game to a user's known set. The set only grows;
	// recording a known game again is a no-op.
	RecordGame(user int64, game model.GameSummary) bool

	// Save persists the current state. Writes go to a temp file which is
	// renamed over the index, so a crash never leaves a partial file.
	Save() error
}
