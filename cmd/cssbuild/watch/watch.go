// Package watch polls a directory and reports files that were created,
// deleted or modified since the previous poll.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"css-tools/pkg/lib"
)

type Event int

const (
	Create Event = iota
	Delete
	Change
)

func (e Event) String() string {
	switch e {
	case Create:
		return "create"
	case Delete:
		return "delete"
	case Change:
		return "change"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// FileChange is one difference between two snapshots. Path is relative to
// the watched directory and uses forward slashes.
type FileChange struct {
	Event Event
	Path  string
}

// Observer is called for every change it is subscribed to, unless it was
// already called less than the throttle window ago.
type Observer func(FileChange)

// Snapshot maps relative file paths to their modification time.
type Snapshot map[string]time.Time

const (
	DefaultInterval = 750 * time.Millisecond
	DefaultThrottle = 30 * time.Millisecond
)

type Options struct {
	Interval time.Duration
	Throttle time.Duration
	// Deep includes files in subdirectories.
	Deep bool
	// Filters restricts the snapshot to matching paths. Empty means all files.
	Filters []*lib.PathFilter
	// Ignore drops matching paths even when a filter matches them.
	Ignore []*lib.PathFilter
}

type subscription struct {
	fn      Observer
	invoked time.Time
}

type Watcher struct {
	root string
	opts Options
	now  func() time.Time

	mu          sync.Mutex
	observers   map[Event][]*subscription
	snapshot    Snapshot
	initialized bool
}

func New(root string, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Throttle < 0 {
		opts.Throttle = 0
	}
	return &Watcher{
		root:      root,
		opts:      opts,
		now:       time.Now,
		observers: make(map[Event][]*subscription),
	}
}

// On subscribes fn to a single event.
func (w *Watcher) On(event Event, fn Observer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers[event] = append(w.observers[event], &subscription{fn: fn})
}

// Any subscribes fn to every event. The throttle window is shared across them.
func (w *Watcher) Any(fn Observer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sub := &subscription{fn: fn}
	for _, e := range []Event{Create, Delete, Change} {
		w.observers[e] = append(w.observers[e], sub)
	}
}

// Poll takes a snapshot and notifies observers of the differences with the
// previous one. The first poll only records the baseline.
func (w *Watcher) Poll() ([]FileChange, error) {
	current, err := TakeSnapshot(w.root, w.opts.Deep, w.opts.Filters, w.opts.Ignore)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	var changes []FileChange
	if w.initialized {
		changes = Diff(w.snapshot, current)
	}
	w.snapshot = current
	w.initialized = true

	type call struct {
		fn Observer
		c  FileChange
	}
	var calls []call
	now := w.now()
	for _, c := range changes {
		for _, sub := range w.observers[c.Event] {
			if !sub.invoked.IsZero() && now.Sub(sub.invoked) < w.opts.Throttle {
				continue
			}
			sub.invoked = now
			calls = append(calls, call{fn: sub.fn, c: c})
		}
	}
	w.mu.Unlock()

	for _, c := range calls {
		c.fn(c.c)
	}
	return changes, nil
}

// Run polls every interval until ctx is done. A failed poll is reported to
// onError and does not stop the loop.
func (w *Watcher) Run(ctx context.Context, onError func(error)) error {
	if _, err := w.Poll(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Poll(); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}

// TakeSnapshot lists the regular files under root.
func TakeSnapshot(root string, deep bool, filters, ignore []*lib.PathFilter) (Snapshot, error) {
	snap := make(Snapshot)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !deep {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if len(filters) > 0 && !lib.MatchAny(filters, rel) {
			return nil
		}
		if lib.MatchAny(ignore, rel) {
			return nil
		}

		info, err := d.Info()
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		snap[rel] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", root, err)
	}
	return snap, nil
}

// Diff lists the changes from prev to cur, sorted by path.
func Diff(prev, cur Snapshot) []FileChange {
	var changes []FileChange
	for path, mod := range cur {
		old, ok := prev[path]
		switch {
		case !ok:
			changes = append(changes, FileChange{Event: Create, Path: path})
		case mod.After(old):
			changes = append(changes, FileChange{Event: Change, Path: path})
		}
	}
	for path := range prev {
		if _, ok := cur[path]; !ok {
			changes = append(changes, FileChange{Event: Delete, Path: path})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes
}
