package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// ErrAlreadyWatching is returned when Watch is called twice on the same watcher
var ErrAlreadyWatching = errors.New("watcher already started")

// PollingWatcher watches one file by polling its size, modification time and checksum.
// A change is reported once the file has been quiet for the debounce period.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	logger   ports.Logger

	mu       sync.Mutex
	started  bool
	current  fingerprint
	events   chan ports.FileChangeEvent
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// fingerprint is what the watcher knows about the file
type fingerprint struct {
	missing  bool
	size     int64
	modTime  time.Time
	checksum string
}

// NewPollingWatcher creates a watcher that polls every interval
func NewPollingWatcher(interval, debounce time.Duration, logger ports.Logger) *PollingWatcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if debounce < 0 {
		debounce = 0
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		logger:   logger,
		events:   make(chan ports.FileChangeEvent, 4),
		stopCh:   make(chan struct{}),
	}
}

// Watch takes an initial fingerprint of path and polls it in the background
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil, ErrAlreadyWatching
	}

	fp, err := takeFingerprint(absPath, fingerprint{})
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	if fp.missing {
		return nil, fmt.Errorf("initial scan: %s does not exist", path)
	}
	w.current = fp
	w.started = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(w.events)
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop ends polling and closes the event channel. It is safe to call more than once.
func (w *PollingWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	return nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, path string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var pending *ports.FileChangeEvent
	var lastChange time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case now := <-ticker.C:
			if changeType, changed := w.check(path); changed {
				// a burst of writes collapses into one event; deletion wins over modification
				if pending == nil || changeType != ports.Modified {
					pending = &ports.FileChangeEvent{Path: path, Type: changeType}
				}
				lastChange = now
			}

			if pending == nil || now.Sub(lastChange) < w.debounce {
				continue
			}

			event := *pending
			event.Timestamp = time.Now()
			pending = nil

			select {
			case w.events <- event:
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// check compares the file with the last fingerprint and records the new one
func (w *PollingWatcher) check(path string) (ports.ChangeType, bool) {
	w.mu.Lock()
	previous := w.current
	w.mu.Unlock()

	next, err := takeFingerprint(path, previous)
	if err != nil {
		w.logger.Warn("watch %s: %v", path, err)
		return 0, false
	}

	w.mu.Lock()
	w.current = next
	w.mu.Unlock()

	switch {
	case next.missing && previous.missing:
		return 0, false
	case next.missing:
		return ports.Deleted, true
	case previous.missing:
		return ports.Created, true
	case next.checksum != previous.checksum:
		return ports.Modified, true
	default:
		return 0, false
	}
}

// takeFingerprint stats path and checksums it unless size and modification time
// match previous
func takeFingerprint(path string, previous fingerprint) (fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fingerprint{missing: true}, nil
		}
		return fingerprint{}, fmt.Errorf("stat file: %w", err)
	}

	if !previous.missing && previous.checksum != "" &&
		previous.size == info.Size() && previous.modTime.Equal(info.ModTime()) {
		return previous, nil
	}

	checksum, err := fileChecksum(path)
	if err != nil {
		return fingerprint{}, fmt.Errorf("calculate checksum: %w", err)
	}

	return fingerprint{
		size:     info.Size(),
		modTime:  info.ModTime(),
		checksum: checksum,
	}, nil
}

// fileChecksum calculates the SHA256 checksum of a file
func fileChecksum(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from the command line
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

var _ ports.FileWatcher = (*PollingWatcher)(nil)
