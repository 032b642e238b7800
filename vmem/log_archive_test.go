package vmem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", CompressionNone, false},
		{"none", CompressionNone, false},
		{"Snappy", CompressionSnappy, false},
		{" lz4 ", CompressionLZ4, false},
		{"zstd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompression(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArchiveFileName(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)

	assert.Equal(t, "memory_simulator_log_20240309_070501.txt", ArchiveFileName(at, CompressionNone))
	assert.Equal(t, "memory_simulator_log_20240309_070501.txt.sz", ArchiveFileName(at, CompressionSnappy))
	assert.Equal(t, "memory_simulator_log_20240309_070501.txt.lz4", ArchiveFileName(at, CompressionLZ4))
}

func TestSaveLogsRoundTrip(t *testing.T) {
	for _, compression := range []string{CompressionNone, CompressionSnappy, CompressionLZ4} {
		t.Run(compression, func(t *testing.T) {
			dir := t.TempDir()
			ms := newTestSystem(t, func(c *Config) {
				c.LogDirectory = dir
				c.LogCompression = compression
			})

			_, err := ms.CreateProcess("A", 2048)
			require.NoError(t, err)
			_, err = ms.CreateProcess("B", 256)
			require.NoError(t, err)
			_, err = ms.SimulateAccess(2, 0)
			require.NoError(t, err)

			path, err := ms.SaveLogs()
			require.NoError(t, err)
			assert.Equal(t, dir, filepath.Dir(path))
			assert.Equal(t, ArchiveFileName(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), compression), filepath.Base(path))

			archive, err := ReadArchive(path)
			require.NoError(t, err)

			logs := ms.AllLogs()
			assert.Equal(t, ms.SessionID(), archive.Session)
			assert.Equal(t, len(logs), archive.Count)
			require.Len(t, archive.Lines, len(logs))
			for i, e := range logs {
				assert.Equal(t, e.Format(), archive.Lines[i])
			}
		})
	}
}

func TestSaveLogsToCreatesDirectory(t *testing.T) {
	ms := newTestSystem(t, nil)
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	path, err := ms.SaveLogsTo(dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestArchiveWriterEmptyLog(t *testing.T) {
	w, err := NewArchiveWriter(t.TempDir(), CompressionSnappy, nil)
	require.NoError(t, err)

	session := uuid.New()
	path, err := w.Write(session, nil)
	require.NoError(t, err)

	archive, err := ReadArchive(path)
	require.NoError(t, err)
	assert.Equal(t, session, archive.Session)
	assert.Equal(t, 0, archive.Count)
	assert.Empty(t, archive.Lines)
}

func TestNewArchiveWriterRejectsUnknownCompression(t *testing.T) {
	_, err := NewArchiveWriter(t.TempDir(), "brotli", nil)
	assert.Error(t, err)
}

func TestReadArchiveCorrupt(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "memory_simulator_log_20240101_000000.txt.sz")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not snappy"), 0644))
	_, err := ReadArchive(bad)
	assert.Error(t, err)

	truncated := filepath.Join(dir, "memory_simulator_log_20240101_000001.txt")
	content := "Session: " + uuid.New().String() + "\nEntries: 2\n\n[00:00:00] only one\n"
	require.NoError(t, os.WriteFile(truncated, []byte(content), 0644))
	_, err = ReadArchive(truncated)
	assert.Error(t, err)

	_, err = ReadArchive(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
