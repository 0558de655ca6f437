package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	ErrWriterClosed = errors.New("writer is closed")
	ErrBufferFull   = errors.New("buffer full")
)

// JSONLWriter appends JSON lines asynchronously to date-organized files
// rotated by size.
type JSONLWriter struct {
	baseDir   string
	subDir    string // e.g. "loads"
	maxSizeMB int
	now       func() time.Time

	writeCh chan any
	done    chan struct{}
	wg      sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	currentDate string
	logger      *lumberjack.Logger
}

// NewJSONLWriter starts an async writer under baseDir/<date>/subDir.
func NewJSONLWriter(baseDir, subDir string, bufferSize int, maxSizeMB int) *JSONLWriter {
	if bufferSize < 1 {
		bufferSize = 1
	}
	w := &JSONLWriter{
		baseDir:   baseDir,
		subDir:    subDir,
		maxSizeMB: maxSizeMB,
		now:       time.Now,
		writeCh:   make(chan any, bufferSize),
		done:      make(chan struct{}),
	}

	w.wg.Add(1)
	go w.writeLoop()

	return w
}

// Write queues a record without blocking. A full buffer drops the record.
func (w *JSONLWriter) Write(record any) error {
	select {
	case <-w.done:
		return ErrWriterClosed
	default:
	}
	select {
	case w.writeCh <- record:
		return nil
	default:
		slog.Warn("JSONL write buffer full, dropping record", "subdir", w.subDir)
		return ErrBufferFull
	}
}

// Close stops the writer after flushing queued records.
func (w *JSONLWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()

	// Drain what the loop left behind.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case record := <-w.writeCh:
			w.writeRecord(record)
			continue
		case <-timeout:
			slog.Warn("JSONL writer close timeout, some records may be lost", "subdir", w.subDir)
		default:
		}
		break
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.logger != nil {
		return w.logger.Close()
	}
	return nil
}

func (w *JSONLWriter) writeLoop() {
	defer w.wg.Done()

	for {
		select {
		case record := <-w.writeCh:
			w.writeRecord(record)
		case <-w.done:
			return
		}
	}
}

func (w *JSONLWriter) writeRecord(record any) {
	data, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to marshal record", "error", err, "subdir", w.subDir)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	date := w.now().UTC().Format("2006-01-02")
	if w.logger == nil || date != w.currentDate {
		if err := w.rotateForDate(date); err != nil {
			slog.Error("failed to open JSONL file", "error", err, "subdir", w.subDir)
			return
		}
	}

	if _, err := w.logger.Write(append(data, '\n')); err != nil {
		slog.Error("failed to write record", "error", err, "subdir", w.subDir)
	}
}

func (w *JSONLWriter) rotateForDate(date string) error {
	if w.logger != nil {
		if err := w.logger.Close(); err != nil {
			slog.Debug("JSONL close failed", "error", err)
		}
		w.logger = nil
	}

	dir := filepath.Join(w.baseDir, date, w.subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%d.jsonl", w.now().Unix()))
	w.logger = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    w.maxSizeMB,
		MaxBackups: 100,
		MaxAge:     30,
		LocalTime:  false,
	}
	w.currentDate = date
	slog.Info("opened JSONL file", "file", filename, "subdir", w.subDir)
	return nil
}
