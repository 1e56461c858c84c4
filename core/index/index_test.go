package index

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/FocuswithJustin/JuniperPhonetic/core/errors"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	var mu sync.Mutex
	var seq int
	ix.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	ix.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return ix
}

func addAll(t *testing.T, ix *Index, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, _, err := ix.Add(context.Background(), n); err != nil {
			t.Fatalf("Add(%q): %v", n, err)
		}
	}
}

func names(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestAdd(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	rec, added, err := ix.Add(ctx, "Peter")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !added {
		t.Error("first Add should report added")
	}
	if rec.Code != "PTA1111111" {
		t.Errorf("Code = %q, want PTA1111111", rec.Code)
	}
	if rec.ID != "id-001" {
		t.Errorf("ID = %q, want id-001", rec.ID)
	}
	if rec.Fingerprint != Fingerprint("peter") {
		t.Errorf("Fingerprint = %q", rec.Fingerprint)
	}

	got, err := ix.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != rec.ID || got.Name != rec.Name || got.Code != rec.Code ||
		got.Fingerprint != rec.Fingerprint || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Get = %+v, want %+v", got, rec)
	}
}

func TestAdd_DeduplicatesByFingerprint(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	first, _, err := ix.Add(ctx, "O'Connell")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	dup, added, err := ix.Add(ctx, "oconnell")
	if err != nil {
		t.Fatalf("Add dup: %v", err)
	}
	if added {
		t.Error("duplicate Add should not report added")
	}
	if dup.ID != first.ID || dup.Name != "O'Connell" {
		t.Errorf("duplicate returned %+v, want stored %+v", dup, first)
	}
	if n, _ := ix.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestAdd_RejectsNameWithoutLetters(t *testing.T) {
	ix := newTestIndex(t)
	for _, name := range []string{"", "1234", "--"} {
		_, _, err := ix.Add(context.Background(), name)
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("Add(%q) error = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	ix := newTestIndex(t)
	_, err := ix.Get(context.Background(), "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestMatch(t *testing.T) {
	ix := newTestIndex(t)
	addAll(t, ix, "Peter", "Stevenson", "Peady", "Karleen", "Colleen")

	tests := []struct {
		word string
		want []string
	}{
		{"Pete r", []string{"Peady", "Peter"}},
		{"Kline", []string{"Colleen", "Karleen"}},
		{"Stephenson", []string{"Stevenson"}},
		{"Dyun", nil},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			recs, err := ix.Match(context.Background(), tt.word)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			got := names(recs)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestGroups(t *testing.T) {
	ix := newTestIndex(t)
	addAll(t, ix, "Peter", "Stevenson", "Peady", "Dyun", "Tyne", "Dean", "Karleen")

	groups, err := ix.Groups(context.Background(), 0)
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}
	if groups[0].Code != "PTA1111111" || fmt.Sprint(names(groups[0].Records)) != "[Peady Peter]" {
		t.Errorf("groups[0] = %s %v", groups[0].Code, names(groups[0].Records))
	}
	if groups[1].Code != "TN11111111" || fmt.Sprint(names(groups[1].Records)) != "[Dean Dyun Tyne]" {
		t.Errorf("groups[1] = %s %v", groups[1].Code, names(groups[1].Records))
	}

	big, err := ix.Groups(context.Background(), 3)
	if err != nil {
		t.Fatalf("Groups(3): %v", err)
	}
	if len(big) != 1 || big[0].Code != "TN11111111" {
		t.Errorf("Groups(3) = %+v, want only TN11111111", big)
	}
}

func TestExportImport(t *testing.T) {
	src := newTestIndex(t)
	addAll(t, src, "Peter", "Peady", "Stevenson")
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := src.Export(ctx, &buf)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 3 {
		t.Errorf("Export wrote %d, want 3", n)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}) {
		t.Error("export is not an xz stream")
	}

	dst := newTestIndex(t)
	addAll(t, dst, "peter") // fingerprint already present
	data := buf.Bytes()
	added, err := dst.Import(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if added != 2 {
		t.Errorf("Import added %d, want 2", added)
	}
	if c, _ := dst.Count(ctx); c != 3 {
		t.Errorf("Count = %d, want 3", c)
	}

	recs, err := dst.Match(ctx, "Stevenson")
	if err != nil || len(recs) != 1 {
		t.Fatalf("Match after import = %v, %v", recs, err)
	}
	orig, _ := src.Match(ctx, "Stevenson")
	if recs[0].ID != orig[0].ID || !recs[0].CreatedAt.Equal(orig[0].CreatedAt) {
		t.Errorf("imported record %+v does not preserve %+v", recs[0], orig[0])
	}
}

func TestImport_Errors(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	if _, err := ix.Import(ctx, bytes.NewReader([]byte("not xz"))); err == nil {
		t.Error("Import of non-xz data should fail")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.db")
	ctx := context.Background()

	ix, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := ix.Add(ctx, "Tedder"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ix.Close()

	reopened, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	recs, err := reopened.Match(ctx, "Teddy")
	if err != nil || len(recs) != 1 || recs[0].Name != "Tedder" {
		t.Errorf("Match after reopen = %v, %v", recs, err)
	}
}

func TestOpenReadOnly(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("existing index", func(t *testing.T) {
		path := filepath.Join(dir, "names.db")
		ix, err := Open(ctx, path, nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		addAll(t, ix, "Stevenson", "Peter")
		ix.Close()

		ro, err := OpenReadOnly(ctx, path, nil)
		if err != nil {
			t.Fatalf("OpenReadOnly: %v", err)
		}
		defer ro.Close()
		recs, err := ro.Match(ctx, "Stephenson")
		if err != nil || len(recs) != 1 || recs[0].Name != "Stevenson" {
			t.Errorf("Match = %v, %v", recs, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "missing.db")
		if _, err := OpenReadOnly(ctx, path, nil); err == nil {
			t.Error("expected error for missing database")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("read-only open created %s", path)
		}
	})

	t.Run("database without names table", func(t *testing.T) {
		path := filepath.Join(dir, "empty.db")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := OpenReadOnly(ctx, path, nil)
		if !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestFingerprint(t *testing.T) {
	if Fingerprint("Mary-Ann") != Fingerprint("maryann") {
		t.Error("fingerprint should ignore case and punctuation")
	}
	if Fingerprint("Peter") == Fingerprint("Peady") {
		t.Error("distinct spellings must not share a fingerprint")
	}
	if got := len(Fingerprint("x")); got != 64 {
		t.Errorf("fingerprint length = %d, want 64", got)
	}
}
