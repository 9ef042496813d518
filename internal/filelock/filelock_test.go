package filelock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.lock")
	l := New(path)

	require.NoError(t, l.Lock())
	assert.FileExists(t, l.Path())
	require.NoError(t, l.Unlock())
}

func TestUnlockWithoutLockIsNoop(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "unused.lock"))
	assert.NoError(t, l.Unlock())
}

func TestTryLockFailsWhenAlreadyHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.lock")
	first := New(path)
	require.NoError(t, first.Lock())
	defer first.Unlock()

	second := New(path)
	acquired, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired)
}
