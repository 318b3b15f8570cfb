package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"review_radar/internal/domain"
	"review_radar/internal/snapshot"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), snapshot.RawFile)
	in := []domain.Review{
		{ReviewID: "a", UserName: "Ana", Rating: 5, Content: "has, punctuation!", Date: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{ReviewID: "b", UserName: "Bob", Rating: 1, Content: "line\nbreak", Date: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), Category: domain.CategoryBugs},
	}
	if err := snapshot.Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := snapshot.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d rows", len(out))
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), snapshot.RawFile)
	big := []domain.Review{
		{ReviewID: "a", Date: time.Now().UTC().Truncate(time.Second)},
		{ReviewID: "b", Date: time.Now().UTC().Truncate(time.Second)},
	}
	if err := snapshot.Write(path, big); err != nil {
		t.Fatalf("write: %v", err)
	}
	small := big[:1]
	if err := snapshot.Write(path, small); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	out, err := snapshot.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 1 || out[0].ReviewID != "a" {
		t.Fatalf("expected fully overwritten snapshot, got %+v", out)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := snapshot.Read(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
