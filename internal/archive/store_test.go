package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sgftools/ogs-archiver/internal/repository/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGame() model.GameSummary {
	return model.GameSummary{
		ID:    7,
		Name:  "Friendly Match",
		White: model.Player{Name: "alice"},
		Black: model.Player{Name: "bob"},
	}
}

func TestPath(t *testing.T) {
	store := NewStore(zap.NewNop().Sugar(), "/archive")

	path := store.Path(100, testGame())
	assert.Equal(t, filepath.Join("/archive", "100", "7 Friendly Match [bob vs alice].sgf"), path)
}

func TestPutAndExists(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(zap.NewNop().Sugar(), dir)
	game := testGame()

	assert.False(t, store.Exists(100, game))

	require.NoError(t, store.Put(100, game, []byte("(;FF[4])")))
	assert.True(t, store.Exists(100, game))

	data, err := os.ReadFile(store.Path(100, game))
	require.NoError(t, err)
	assert.Equal(t, "(;FF[4])", string(data))
}

func TestPut_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(zap.NewNop().Sugar(), dir)

	require.NoError(t, store.Put(100, testGame(), []byte("(;FF[4])")))

	entries, err := os.ReadDir(filepath.Join(dir, "100"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
