package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jens-ohlsson/bastion/internal/game/status"
)

func TestApply_MaxMerge(t *testing.T) {
	set := status.NewActiveSet()
	def := &status.Def{ID: "weakened", Name: "Weakened"}

	require.NoError(t, set.Apply(def, 3))
	require.NoError(t, set.Apply(def, 1))
	assert.Equal(t, 3, set.Remaining("weakened"), "shorter re-apply must not shrink the duration")

	require.NoError(t, set.Apply(def, 5))
	assert.Equal(t, 5, set.Remaining("weakened"), "longer re-apply extends")
	assert.Equal(t, 1, set.Len(), "re-apply never duplicates")
}

func TestApply_Invalid(t *testing.T) {
	set := status.NewActiveSet()
	assert.Error(t, set.Apply(nil, 1))
	assert.Error(t, set.Apply(&status.Def{ID: "x"}, 0))
}

func TestTick_Expiry(t *testing.T) {
	set := status.NewActiveSet()
	require.NoError(t, set.Apply(&status.Def{ID: "short"}, 1))
	require.NoError(t, set.Apply(&status.Def{ID: "long"}, 2))

	expired := set.Tick()
	assert.Equal(t, []string{"short"}, expired)
	assert.False(t, set.Has("short"))
	assert.True(t, set.Has("long"))
	assert.Equal(t, 1, set.Remaining("long"))

	expired = set.Tick()
	assert.Equal(t, []string{"long"}, expired)
	assert.Zero(t, set.Len())
	assert.Empty(t, set.Tick(), "ticking an empty set expires nothing")
}

func TestRestricted(t *testing.T) {
	set := status.NewActiveSet()
	require.NoError(t, set.Apply(&status.Def{ID: "weakened"}, 2))
	assert.False(t, set.Restricted())

	require.NoError(t, set.Apply(&status.Def{ID: "stunned", RestrictsAction: true}, 1))
	assert.True(t, set.Restricted())

	set.Remove("stunned")
	assert.False(t, set.Restricted())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stunned.yaml", `
id: stunned
name: Stunned
description: Cannot act this turn.
restricts_action: true
`)
	writeFile(t, dir, "weakened.yaml", `
id: weakened
name: Weakened
`)
	writeFile(t, dir, "notes.txt", "ignored")

	reg, err := status.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, reg.All(), 2)

	def, ok := reg.Get("stunned")
	require.True(t, ok)
	assert.Equal(t, "Stunned", def.Name)
	assert.True(t, def.RestrictsAction)
}

func TestLoadDirectory_Errors(t *testing.T) {
	t.Run("unknown field", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "id: x\nbogus_field: 1\n")
		_, err := status.LoadDirectory(dir)
		assert.Error(t, err)
	})

	t.Run("empty id", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "name: Nameless\n")
		_, err := status.LoadDirectory(dir)
		assert.ErrorContains(t, err, "id must not be empty")
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := status.LoadDirectory(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
