package vmem

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
)

// Archive compression algorithms
const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
	CompressionLZ4    = "lz4"
)

const (
	archivePrefix = "memory_simulator_log_"
	archiveRule   = "========================================"
	archiveTitle  = "MEMORY SIMULATOR EVENT LOG"
)

// ParseCompression normalizes a compression name. The empty string means none.
func ParseCompression(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionSnappy:
		return CompressionSnappy, nil
	case CompressionLZ4:
		return CompressionLZ4, nil
	default:
		return "", fmt.Errorf("invalid log compression: %s (must be none, snappy, or lz4)", name)
	}
}

func compressionExt(compression string) string {
	switch compression {
	case CompressionSnappy:
		return ".sz"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ArchiveFileName returns the file name of an archive written at t
func ArchiveFileName(t time.Time, compression string) string {
	return archivePrefix + t.Format("20060102_150405") + ".txt" + compressionExt(compression)
}

// ArchiveWriter persists event logs as text files, optionally compressed.
// Files are flushed to stable storage before they are closed.
type ArchiveWriter struct {
	dir         string
	compression string
	logger      *slog.Logger
	now         func() time.Time
}

// NewArchiveWriter creates a writer for dir. The directory is created if missing.
func NewArchiveWriter(dir, compression string, logger *slog.Logger) (*ArchiveWriter, error) {
	c, err := ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArchiveWriter{
		dir:         dir,
		compression: c,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Write stores entries under a timestamped name and returns the file path
func (w *ArchiveWriter) Write(session uuid.UUID, entries []LogEntry) (string, error) {
	var body bytes.Buffer
	fmt.Fprintf(&body, "%s\n%s\n%s\n", archiveRule, archiveTitle, archiveRule)
	fmt.Fprintf(&body, "Session: %s\n", session)
	fmt.Fprintf(&body, "Entries: %d\n\n", len(entries))
	for _, e := range entries {
		body.WriteString(e.Format())
		body.WriteByte('\n')
	}

	data, err := compressArchive(body.Bytes(), w.compression)
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, ArchiveFileName(w.now(), w.compression))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create log archive: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write log archive: %w", err)
	}
	if err := syncFile(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to sync log archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close log archive: %w", err)
	}

	w.logger.Info("event log archived",
		slog.String("path", path),
		slog.Int("entries", len(entries)),
		slog.String("compression", w.compression),
		slog.Int("bytes", len(data)))
	return path, nil
}

func compressArchive(data []byte, compression string) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil

	case CompressionSnappy:
		return snappy.Encode(nil, data), nil

	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("LZ4 compression failed: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("LZ4 compression failed: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

func decompressArchive(data []byte, compression string) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil

	case CompressionSnappy:
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("snappy decompression failed: %w", err)
		}
		return out, nil

	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("LZ4 decompression failed: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

// Archive is the decoded content of an archive file
type Archive struct {
	Session uuid.UUID
	Count   int      // entry count declared in the header
	Lines   []string // formatted entries in order
}

// ReadArchive decodes an archive. The compression is taken from the file extension.
func ReadArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log archive: %w", err)
	}

	compression := CompressionNone
	switch filepath.Ext(path) {
	case ".sz":
		compression = CompressionSnappy
	case ".lz4":
		compression = CompressionLZ4
	}

	text, err := decompressArchive(data, compression)
	if err != nil {
		return nil, err
	}

	a := &Archive{}
	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Session: "):
			id, err := uuid.Parse(strings.TrimPrefix(line, "Session: "))
			if err != nil {
				return nil, fmt.Errorf("invalid session id in archive: %w", err)
			}
			a.Session = id
		case strings.HasPrefix(line, "Entries: "):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "Entries: "))
			if err != nil {
				return nil, fmt.Errorf("invalid entry count in archive: %w", err)
			}
			a.Count = n
		case strings.HasPrefix(line, "["):
			a.Lines = append(a.Lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan log archive: %w", err)
	}
	if len(a.Lines) != a.Count {
		return nil, fmt.Errorf("archive declares %d entries, found %d", a.Count, len(a.Lines))
	}
	return a, nil
}

// SaveLogs writes the whole event log to the configured log directory
// with the configured compression and returns the file path.
func (ms *MemorySystem) SaveLogs() (string, error) {
	return ms.SaveLogsTo(ms.config.LogDirectory)
}

// SaveLogsTo writes the whole event log into dir
func (ms *MemorySystem) SaveLogsTo(dir string) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	w, err := NewArchiveWriter(dir, ms.config.LogCompression, ms.logger)
	if err != nil {
		return "", err
	}
	w.now = ms.now
	return w.Write(ms.sessionID, ms.events.All())
}
