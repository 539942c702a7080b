package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quickdex/core"
)

func TestItemRoundTrip(t *testing.T) {
	lastUsed := time.Date(2026, 3, 14, 9, 26, 53, 589000, time.UTC)
	indexed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	item := &core.Item{
		Path:        "/home/user/docs/report.docx",
		Name:        "report.docx",
		Description: "Documents folder",
		Kind:        core.KindFile,
		UseCount:    42,
		LastUsedAt:  lastUsed,
		IndexedAt:   indexed,
	}

	data := MarshalItem(item)
	require.Len(t, data, SizeItem(item))

	got, err := UnmarshalItem(data)
	require.NoError(t, err)
	assert.Equal(t, item.Path, got.Path)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, item.Description, got.Description)
	assert.Equal(t, item.Kind, got.Kind)
	assert.Equal(t, item.UseCount, got.UseCount)
	assert.True(t, got.LastUsedAt.Equal(item.LastUsedAt))
	assert.True(t, got.IndexedAt.Equal(item.IndexedAt))
}

func TestItemZeroLastUsedSurvives(t *testing.T) {
	item := &core.Item{
		Path: "/usr/bin/ls",
		Name: "ls",
		Kind: core.KindCommand,
	}

	got, err := UnmarshalItem(MarshalItem(item))
	require.NoError(t, err)
	assert.True(t, got.LastUsedAt.IsZero(), "never-used must round-trip as never-used")
}

func TestFingerprintRoundTrip(t *testing.T) {
	fp := &core.FolderFingerprint{
		FolderPath:       "/home/user/docs",
		Digest:           "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		FileCount:        120,
		FolderCount:      14,
		TotalSizeBytes:   1 << 33,
		LatestModifiedAt: time.Date(2026, 7, 30, 8, 15, 0, 0, time.UTC),
		ComputedAt:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data := MarshalFingerprint(fp)
	require.Len(t, data, SizeFingerprint(fp))

	got, err := UnmarshalFingerprint(data)
	require.NoError(t, err)
	assert.Equal(t, fp.FolderPath, got.FolderPath)
	assert.Equal(t, fp.Digest, got.Digest)
	assert.Equal(t, fp.FileCount, got.FileCount)
	assert.Equal(t, fp.FolderCount, got.FolderCount)
	assert.Equal(t, fp.TotalSizeBytes, got.TotalSizeBytes)
	assert.True(t, got.LatestModifiedAt.Equal(fp.LatestModifiedAt))
	assert.True(t, got.ComputedAt.Equal(fp.ComputedAt))
}

func TestUnmarshalTruncatedData(t *testing.T) {
	item := &core.Item{Path: "/a", Name: "a", Kind: core.KindFile}
	data := MarshalItem(item)

	_, err := UnmarshalItem(data[:1])
	assert.Error(t, err)
}
