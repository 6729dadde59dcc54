package storage

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/physnodes/internal/tracking"
)

func testPoints() tracking.Points {
	return tracking.Points{
		{{0, 0}, {0, 1.5}, {0, 4}},
		{{10, 20}, {11, 22}, {12, 24}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	defer st.Close()

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Scene:   "drop",
		Dt:      0.02,
		Frames:  3,
		Width:   576,
		Height:  320,
		Shapes:  3,
		Metrics: map[string]float64{"energy_drift": 0.25},
	}

	runID, err := st.Save(context.Background(), meta, testPoints(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "drop_") {
		t.Errorf("expected run id prefixed with scene, got %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scene != "drop" {
		t.Errorf("expected scene drop, got %s", loaded.Scene)
	}
	if loaded.Tracked != 2 {
		t.Errorf("expected 2 tracked shapes, got %d", loaded.Tracked)
	}
	if loaded.Rendered {
		t.Error("tracking-only run should not be marked rendered")
	}
	if loaded.Metrics["energy_drift"] != 0.25 {
		t.Errorf("expected metrics to round trip, got %v", loaded.Metrics)
	}

	points, err := st.LoadPoints(runID)
	if err != nil {
		t.Fatalf("load points failed: %v", err)
	}
	got, _ := points.JSON()
	want, _ := testPoints().JSON()
	if got != want {
		t.Errorf("points mismatch: %s", got)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	defer st.Close()
	ctx := context.Background()

	for _, scene := range []string{"drop", "ramp", "drop"} {
		if _, err := st.Save(ctx, RunMetadata{Scene: scene, Dt: 0.02, Frames: 3}, testPoints(), nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err := st.List(ctx, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i-1].Timestamp.Before(runs[i].Timestamp) {
			t.Errorf("runs not newest first: %v before %v", runs[i-1].Timestamp, runs[i].Timestamp)
		}
	}

	drops, err := st.List(ctx, "drop")
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(drops) != 2 {
		t.Errorf("expected 2 drop runs, got %d", len(drops))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	defer st.Close()

	frames := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 8, 8)),
		image.NewRGBA(image.Rect(0, 0, 8, 8)),
	}
	runID, err := st.Save(context.Background(), RunMetadata{Scene: "pile"}, testPoints(), frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "tracking.json", "tracking.csv", "frames/frame_0000.png", "frames/frame_0001.png"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "catalog.db")); os.IsNotExist(err) {
		t.Error("catalog.db not created")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !meta.Rendered {
		t.Error("run with frames should be marked rendered")
	}
}

func TestStoreReindex(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	st := New(tmpDir)
	runID, err := st.Save(ctx, RunMetadata{Scene: "ramp"}, testPoints(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	st.Close()

	if err := os.Remove(filepath.Join(tmpDir, "catalog.db")); err != nil {
		t.Fatalf("remove catalog: %v", err)
	}
	os.Remove(filepath.Join(tmpDir, "catalog.db-wal"))
	os.Remove(filepath.Join(tmpDir, "catalog.db-shm"))

	st = New(tmpDir)
	defer st.Close()
	n, err := st.Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 reindexed run, got %d", n)
	}

	runs, err := st.List(ctx, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("expected run %s after reindex, got %+v", runID, runs)
	}
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	defer st.Close()
	ctx := context.Background()

	runID, err := st.Save(ctx, RunMetadata{Scene: "drop"}, testPoints(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.Delete(ctx, runID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.Load(runID); err == nil {
		t.Error("expected load of deleted run to fail")
	}
	runs, _ := st.List(ctx, "")
	if len(runs) != 0 {
		t.Errorf("expected catalog to be empty, got %d", len(runs))
	}
	if err := st.Delete(ctx, runID); err == nil {
		t.Error("expected error deleting missing run")
	}
}

func TestStoreRejectsUnsafeRunIDs(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	sibling := filepath.Join(root, "keep.txt")
	if err := os.WriteFile(sibling, []byte("keep"), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	st := New(dataDir)
	defer st.Close()
	ctx := context.Background()
	runID, err := st.Save(ctx, RunMetadata{Scene: "drop"}, testPoints(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, id := range []string{"", ".", "..", "a/b", "../x", "..\\x", runID + "/.."} {
		if err := st.Delete(ctx, id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("Delete(%q): expected ErrInvalidRunID, got %v", id, err)
		}
		if _, err := st.Load(id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("Load(%q): expected ErrInvalidRunID, got %v", id, err)
		}
		if _, err := st.LoadPoints(id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("LoadPoints(%q): expected ErrInvalidRunID, got %v", id, err)
		}
	}

	if _, err := os.Stat(sibling); err != nil {
		t.Errorf("file beside the data dir was touched: %v", err)
	}
	if _, err := st.Load(runID); err != nil {
		t.Errorf("existing run was touched: %v", err)
	}
}

func TestStoreDeleteSkipsNonRunDirs(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	defer st.Close()
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	plain := filepath.Join(tmpDir, "notes")
	if err := os.Mkdir(plain, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := st.Delete(context.Background(), "notes"); err == nil {
		t.Error("expected error deleting a directory without run metadata")
	}
	if _, err := os.Stat(plain); err != nil {
		t.Errorf("directory without run metadata was removed: %v", err)
	}
}

func TestStoreSaveSanitizesSceneName(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	st := New(dataDir)
	defer st.Close()
	ctx := context.Background()

	tests := []struct {
		scene  string
		prefix string
	}{
		{"..", "__"},
		{"../escaped", "___escaped"},
		{"a/b", "a_b"},
		{`a\b`, "a_b"},
		{"", "run_"},
	}
	for _, tt := range tests {
		runID, err := st.Save(ctx, RunMetadata{Scene: tt.scene}, testPoints(), nil)
		if err != nil {
			t.Fatalf("save %q failed: %v", tt.scene, err)
		}
		if !strings.HasPrefix(runID, tt.prefix) {
			t.Errorf("scene %q: expected id prefix %q, got %q", tt.scene, tt.prefix, runID)
		}
		if filepath.Dir(filepath.Join(dataDir, runID)) != dataDir {
			t.Errorf("scene %q: run %q is not directly inside the data dir", tt.scene, runID)
		}
		meta, err := st.Load(runID)
		if err != nil {
			t.Fatalf("load %q failed: %v", runID, err)
		}
		if meta.Scene != tt.scene {
			t.Errorf("expected scene name %q kept in metadata, got %q", tt.scene, meta.Scene)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "data" {
		t.Errorf("runs escaped the data dir: %v", entries)
	}

	n, err := st.Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if n != len(tests) {
		t.Errorf("expected %d reindexed runs, got %d", len(tests), n)
	}
}
