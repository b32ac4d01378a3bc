package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/superpsx/vramdiff/internal/diff"
)

func sampleRecord(id string) *Record {
	return NewRecord(id, CompareConfig{
		DumpPath: "vram.bin",
		RefPath:  "ref.png",
	}, &diff.Result{
		PrecisionBits: 5,
		Overall: diff.Summary{
			Total:        16,
			Missing:      1,
			MatchPercent: 93.75,
		},
	})
}

func TestFSStoreRoundTrip(t *testing.T) {
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	rec := sampleRecord("abc")
	if err := fs.SaveResult("abc", rec); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	loaded, err := fs.LoadResult("abc")
	if err != nil {
		t.Fatalf("LoadResult failed: %v", err)
	}
	if loaded.ID != "abc" || loaded.Overall.Missing != 1 || loaded.Overall.MatchPercent != 93.75 {
		t.Errorf("loaded record = %+v", loaded)
	}
	if loaded.Config.DumpPath != "vram.bin" {
		t.Errorf("config not persisted: %+v", loaded.Config)
	}
}

func TestFSStoreNotFound(t *testing.T) {
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	_, err = fs.LoadResult("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadResult error = %v, want ErrNotFound", err)
	}

	if err := fs.DeleteResult("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteResult error = %v, want ErrNotFound", err)
	}
}

func TestFSStoreList(t *testing.T) {
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	infos, err := fs.ListResults()
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("empty store listed %d results", len(infos))
	}

	for _, id := range []string{"one", "two"} {
		if err := fs.SaveResult(id, sampleRecord(id)); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	infos, err = fs.ListResults()
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d results, want 2", len(infos))
	}
	if infos[0].MatchPercent != 93.75 || infos[0].DiffCount != 1 {
		t.Errorf("listing info = %+v", infos[0])
	}
}

func TestFSStoreDeleteRemovesArtifacts(t *testing.T) {
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	if err := fs.SaveResult("job", sampleRecord("job")); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	artifact := fs.ArtifactPath("job", "diff.png")
	if err := os.WriteFile(artifact, []byte("png"), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	if err := fs.DeleteResult("job"); err != nil {
		t.Fatalf("DeleteResult failed: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(artifact)); !os.IsNotExist(err) {
		t.Error("result directory still exists after delete")
	}
}

func TestFSStoreSkipsStrayDirectories(t *testing.T) {
	base := t.TempDir()
	fs, err := NewFSStore(base)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	if err := fs.SaveResult("ok", sampleRecord("ok")); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	// A directory with no result.json must not break listing.
	if err := os.MkdirAll(filepath.Join(base, "results", "stray"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	infos, err := fs.ListResults()
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "ok" {
		t.Errorf("listing = %+v, want only \"ok\"", infos)
	}
}
