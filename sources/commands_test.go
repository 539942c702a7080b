package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quickdex/core"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func TestCommandHarvest(t *testing.T) {
	bin := t.TempDir()
	gitPath := writeExecutable(t, bin, "git")
	require.NoError(t, os.WriteFile(filepath.Join(bin, "README"), []byte("not executable"), 0644))

	s := NewCommandSource(WithPathEnv(bin))
	items, err := s.Harvest(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, gitPath, items[0].Path)
	assert.Equal(t, "git", items[0].Name)
	assert.Equal(t, core.KindCommand, items[0].Kind)
	assert.True(t, s.Volatile())
}

func TestCommandHarvestFirstDirectoryWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	winner := writeExecutable(t, first, "python")
	writeExecutable(t, second, "python")

	pathEnv := strings.Join([]string{first, second}, string(os.PathListSeparator))
	s := NewCommandSource(WithPathEnv(pathEnv))

	items, err := s.Harvest(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, winner, items[0].Path)
}

func TestCommandHarvestSkipsUnreadableDirectories(t *testing.T) {
	bin := t.TempDir()
	tool := writeExecutable(t, bin, "tool")

	pathEnv := strings.Join([]string{filepath.Join(bin, "missing"), bin}, string(os.PathListSeparator))
	s := NewCommandSource(WithPathEnv(pathEnv))

	items, err := s.Harvest(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tool, items[0].Path)
}
