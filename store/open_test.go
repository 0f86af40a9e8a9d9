package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/evalsim/config"
)

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenStorage(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = OpenStorage(config.StorageConfig{Type: "file", Dir: filepath.Join(dir, "state")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = OpenStorage(config.StorageConfig{Type: "sqlite", DBPath: filepath.Join(dir, "state.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	s, err = OpenStorage(config.StorageConfig{Type: "redis", RedisAddr: "127.0.0.1:1", TTL: "30m"})
	require.NoError(t, err)
	r, ok := s.(*Redis)
	require.True(t, ok)
	assert.Equal(t, "30m0s", r.TTL.String())
	require.NoError(t, s.Close())

	_, err = OpenStorage(config.StorageConfig{Type: "etcd"})
	assert.Error(t, err)
}
