// Package tail follows a growing timestamp log, draining newly appended
// entries through a resumable reader cursor.
package tail

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/buildstamp/buildstamp/internal/core/model"
	"github.com/buildstamp/buildstamp/internal/data/tslog"
	"github.com/buildstamp/buildstamp/internal/util"
)

// Follower tails one build's timestamp log. Entries already consumed
// are never redelivered; the underlying reader cursor is the only state
// carried between drains.
type Follower struct {
	dir       string
	reader    *tslog.Reader
	batchSize int
}

// NewFollower creates a Follower positioned at the start of the log.
func NewFollower(dir string, batchSize int) *Follower {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Follower{
		dir:       dir,
		reader:    tslog.NewReader(dir),
		batchSize: batchSize,
	}
}

// NewFollowerAt creates a Follower resuming from a saved cursor.
func NewFollowerAt(dir string, cursor tslog.Cursor, batchSize int) *Follower {
	f := NewFollower(dir, batchSize)
	f.reader = tslog.NewReaderAt(dir, cursor)
	return f
}

// Cursor returns the follower's resumable position.
func (f *Follower) Cursor() tslog.Cursor {
	return f.reader.Cursor()
}

// Drain reads every entry appended since the previous drain and hands
// them to fn in batches of at most batchSize.
func (f *Follower) Drain(fn func([]model.Timestamp)) error {
	for {
		entries, err := f.reader.ReadN(f.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		fn(entries)
	}
}

// Watch drains the log once, then blocks delivering new entries as the
// recording side appends them, until ctx is cancelled. The build
// directory is watched rather than the file itself so the watch
// survives the file not existing yet.
func (f *Follower) Watch(ctx context.Context, fn func([]model.Timestamp)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return err
	}

	if err := f.Drain(fn); err != nil {
		return err
	}

	logPath := tslog.TimestampsFile(f.dir)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != logPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !f.hasNewData() {
				continue
			}
			if err := f.Drain(fn); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// hasNewData reports whether bytes exist past the cursor offset.
func (f *Follower) hasNewData() bool {
	size, err := util.FileSize(tslog.TimestampsFile(f.dir))
	if err != nil {
		util.LogWarnf("Failed to stat %s: %v", tslog.TimestampsFile(f.dir), err)
		return false
	}
	return size > f.reader.Cursor().TimestampsOffset
}
