package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"css-tools/pkg/lib"
)

func writeFile(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestDiff(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)

	prev := Snapshot{"a.css": t0, "b.css": t0, "c.css": t0}
	cur := Snapshot{"a.css": t0, "b.css": t1, "d.css": t0}

	got := Diff(prev, cur)
	want := []FileChange{
		{Event: Change, Path: "b.css"},
		{Event: Delete, Path: "c.css"},
		{Event: Create, Path: "d.css"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTakeSnapshot(t *testing.T) {
	dir := t.TempDir()
	mod := time.Unix(1000, 0)
	writeFile(t, filepath.Join(dir, "main.css"), mod)
	writeFile(t, filepath.Join(dir, "notes.txt"), mod)
	writeFile(t, filepath.Join(dir, "parts", "button.css"), mod)

	shallow, err := TakeSnapshot(dir, false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shallow) != 2 {
		t.Fatalf("expected 2 top-level files, got %v", shallow)
	}

	filter, _ := lib.NewPathFilter("**/*.css")
	deep, err := TakeSnapshot(dir, true, []*lib.PathFilter{filter}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := deep["parts/button.css"]; !ok || len(deep) != 2 {
		t.Fatalf("unexpected deep snapshot: %v", deep)
	}

	ignore, _ := lib.NewPathFilter("parts/**/*")
	kept, err := TakeSnapshot(dir, true, []*lib.PathFilter{filter}, []*lib.PathFilter{ignore})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := kept["main.css"]; !ok || len(kept) != 1 {
		t.Fatalf("unexpected snapshot with ignore: %v", kept)
	}
}

func TestWatcher_Poll(t *testing.T) {
	dir := t.TempDir()
	base := time.Unix(1000, 0)
	writeFile(t, filepath.Join(dir, "index.css"), base)

	w := New(dir, Options{Throttle: time.Nanosecond})

	var seen []FileChange
	w.Any(func(c FileChange) { seen = append(seen, c) })

	changes, err := w.Poll()
	if err != nil || len(changes) != 0 {
		t.Fatalf("first poll must only record a baseline, got %v (%v)", changes, err)
	}

	writeFile(t, filepath.Join(dir, "new.css"), base)
	clock := time.Unix(2000, 0)
	w.now = func() time.Time { return clock }
	if _, err := w.Poll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeFile(t, filepath.Join(dir, "index.css"), base.Add(time.Minute))
	clock = clock.Add(time.Second)
	if _, err := w.Poll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "new.css")); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Second)
	if _, err := w.Poll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []FileChange{
		{Event: Create, Path: "new.css"},
		{Event: Change, Path: "index.css"},
		{Event: Delete, Path: "new.css"},
	}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("got %+v, want %+v", seen, want)
	}
}

func TestWatcher_Throttle(t *testing.T) {
	dir := t.TempDir()
	base := time.Unix(1000, 0)

	w := New(dir, Options{Throttle: time.Minute})
	clock := time.Unix(5000, 0)
	w.now = func() time.Time { return clock }

	calls := 0
	w.On(Create, func(FileChange) { calls++ })

	if _, err := w.Poll(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.css"), base)
	writeFile(t, filepath.Join(dir, "b.css"), base)
	if _, err := w.Poll(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected one call inside the throttle window, got %d", calls)
	}

	clock = clock.Add(2 * time.Minute)
	writeFile(t, filepath.Join(dir, "c.css"), base)
	if _, err := w.Poll(); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("expected a second call after the window, got %d", calls)
	}
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	w := New(t.TempDir(), Options{Interval: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := w.Run(ctx, nil); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestEventString(t *testing.T) {
	if Create.String() != "create" || Delete.String() != "delete" || Change.String() != "change" {
		t.Fatal("unexpected event names")
	}
}
