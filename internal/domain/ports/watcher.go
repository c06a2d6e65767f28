package ports

import (
	"context"
	"time"
)

// FileWatcher reports changes to a single file
type FileWatcher interface {
	// Watch starts watching path. The channel closes when ctx is done or Stop is called.
	Watch(ctx context.Context, path string) (<-chan FileChangeEvent, error)
	// Stop stops the watcher
	Stop() error
}

// FileChangeEvent represents a file change event
type FileChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates the file content changed
	Modified ChangeType = iota
	// Created indicates the file reappeared after being deleted
	Created
	// Deleted indicates the file disappeared
	Deleted
)

// String returns the string representation of ChangeType
func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
