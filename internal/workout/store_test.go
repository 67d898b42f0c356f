package workout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/mapty/internal/kv"
	"github.com/claude/mapty/internal/models"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ids(ws []*models.Workout) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// failingKV accepts reads but fails every write.
type failingKV struct{ *kv.Memory }

func (f *failingKV) Set(context.Context, string, string) error { return errors.New("disk full") }

// TestStoreAppendPersists verifies that an append is written through and can
// be loaded by a fresh store on the same backend.
func TestStoreAppendPersists(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, "", discardLog())
	for _, w := range sample(t) {
		if err := s.Append(ctx, w); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if _, ok, _ := backend.Get(ctx, DefaultKey); !ok {
		t.Fatal("nothing persisted under default key")
	}

	fresh := NewStore(backend, "", discardLog())
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(fresh.Sequence()); !equalIDs(got, []string{"1000000001", "1000000002"}) {
		t.Errorf("loaded sequence = %v", got)
	}
}

// TestStoreAllDisplayOrder verifies All lists the newest workout first.
func TestStoreAllDisplayOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", discardLog())
	for _, w := range sample(t) {
		s.Append(ctx, w)
	}
	if got := ids(s.All()); !equalIDs(got, []string{"1000000002", "1000000001"}) {
		t.Errorf("All = %v, want newest first", got)
	}
}

// TestStoreReplaceMovesToFront verifies an edited workout moves to the
// insertion point and so to the front of All, and the new order is persisted.
func TestStoreReplaceMovesToFront(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, "", discardLog())
	for _, w := range sample(t) {
		s.Append(ctx, w)
	}

	err := s.Replace(ctx, "1000000001", func(w *models.Workout) error {
		return w.Replace(models.Running, 10, 50, 160)
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := ids(s.All()); !equalIDs(got, []string{"1000000001", "1000000002"}) {
		t.Errorf("All after edit = %v", got)
	}

	fresh := NewStore(backend, "", discardLog())
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, ok := fresh.Find("1000000001")
	if !ok || w.Pace != 5 {
		t.Errorf("persisted edit = %+v", w)
	}
	if got := ids(fresh.All()); !equalIDs(got, []string{"1000000001", "1000000002"}) {
		t.Errorf("persisted order = %v", got)
	}
}

// TestStoreReplaceFailureNoChange verifies a failing mutator leaves order and
// persisted data untouched.
func TestStoreReplaceFailureNoChange(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, "", discardLog())
	for _, w := range sample(t) {
		s.Append(ctx, w)
	}
	before, _, _ := backend.Get(ctx, DefaultKey)

	err := s.Replace(ctx, "1000000001", func(w *models.Workout) error {
		return w.Replace(models.Running, 0, 50, 160)
	})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	after, _, _ := backend.Get(ctx, DefaultKey)
	if before != after {
		t.Error("persisted copy changed on failed replace")
	}
	if got := ids(s.All()); !equalIDs(got, []string{"1000000002", "1000000001"}) {
		t.Errorf("order changed on failed replace: %v", got)
	}
}

// TestStoreReplaceMissing verifies an unknown ID is ErrWorkoutNotFound.
func TestStoreReplaceMissing(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", discardLog())
	err := s.Replace(context.Background(), "nope", func(*models.Workout) error { return nil })
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("err = %v, want ErrWorkoutNotFound", err)
	}
}

// TestStoreAppendDuplicate verifies IDs stay unique.
func TestStoreAppendDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", discardLog())
	w := sample(t)[0]
	if err := s.Append(ctx, w); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, w); err == nil {
		t.Error("expected error for duplicate id")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

// TestStoreResetAll verifies reset empties memory and erases the persisted copy.
func TestStoreResetAll(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, "custom", discardLog())
	for _, w := range sample(t) {
		s.Append(ctx, w)
	}
	s.ResetAll(ctx)
	if s.Len() != 0 {
		t.Errorf("len = %d after reset", s.Len())
	}
	if _, ok, _ := backend.Get(ctx, "custom"); ok {
		t.Error("persisted copy survived reset")
	}
}

// TestStoreWriteFailureKeepsMemory verifies a failed write does not undo the
// in-memory mutation.
func TestStoreWriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	backend := &failingKV{Memory: kv.NewMemory()}
	s := NewStore(backend, "", discardLog())
	if err := s.Append(ctx, sample(t)[0]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

// TestStoreLoadMalformed verifies garbage in storage loads as empty.
func TestStoreLoadMalformed(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	backend.Set(ctx, DefaultKey, "{broken")
	s := NewStore(backend, "", discardLog())
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

// unreadableKV fails every read but accepts writes.
type unreadableKV struct{ *kv.Memory }

func (u *unreadableKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection reset")
}

// TestStoreLoadReadFailureHoldsWrites verifies a failed read is returned and
// later mutations do not overwrite the collection that could not be read.
func TestStoreLoadReadFailureHoldsWrites(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, "", discardLog())
	for _, w := range sample(t) {
		if err := s.Append(ctx, w); err != nil {
			t.Fatal(err)
		}
	}

	broken := NewStore(&unreadableKV{Memory: backend}, "", discardLog())
	if err := broken.Load(ctx); err == nil {
		t.Fatal("Load succeeded on a failing backend")
	}
	extra, err := models.NewRunning("1000000009", day, models.Coords{Lat: 1, Lng: 2}, 5, 25, 170)
	if err != nil {
		t.Fatal(err)
	}
	if err := broken.Append(ctx, extra); err != nil {
		t.Fatalf("Append: %v", err)
	}

	fresh := NewStore(backend, "", discardLog())
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(fresh.Sequence()); !equalIDs(got, []string{"1000000001", "1000000002"}) {
		t.Errorf("persisted sequence = %v, want the original two", got)
	}
}

// TestStoreResetAfterReadFailureResumesWrites verifies an explicit reset
// re-enables persistence after a failed load.
func TestStoreResetAfterReadFailureResumesWrites(t *testing.T) {
	ctx := context.Background()
	backend := &unreadableKV{Memory: kv.NewMemory()}
	s := NewStore(backend, "", discardLog())
	if err := s.Load(ctx); err == nil {
		t.Fatal("Load succeeded on a failing backend")
	}
	s.ResetAll(ctx)
	if err := s.Append(ctx, sample(t)[0]); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := backend.Memory.Get(ctx, DefaultKey); !ok {
		t.Error("append after reset was not persisted")
	}
}
