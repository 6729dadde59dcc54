package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/physnodes/internal/render"
	"github.com/san-kum/physnodes/internal/tracking"
)

const (
	metadataFile = "metadata.json"
	trackingFile = "tracking.json"
	csvFile      = "tracking.csv"
	framesDir    = "frames"
	catalogFile  = "catalog.db"
)

// ErrInvalidRunID is returned for run ids that are not a single directory
// name inside the data directory.
var ErrInvalidRunID = errors.New("storage: invalid run id")

type Store struct {
	baseDir string
	catalog *Catalog
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the data directory and opens the run catalog.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	if s.catalog != nil {
		return nil
	}
	c, err := OpenCatalog(filepath.Join(s.baseDir, catalogFile))
	if err != nil {
		return err
	}
	s.catalog = c
	return nil
}

func (s *Store) Close() error {
	if s.catalog == nil {
		return nil
	}
	err := s.catalog.Close()
	s.catalog = nil
	return err
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Gravity   [2]float64         `json:"gravity"`
	Shapes    int                `json:"shapes"`
	Tracked   int                `json:"tracked"`
	Rendered  bool               `json:"rendered"`
	ElapsedMS float64            `json:"elapsed_ms"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes a run directory and indexes it. frames may be nil for
// tracking-only runs.
func (s *Store) Save(ctx context.Context, meta RunMetadata, points tracking.Points, frames []image.Image) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	meta.ID = fmt.Sprintf("%s_%s", runPrefix(meta.Scene), uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Tracked = len(points)
	meta.Rendered = len(frames) > 0
	runDir := s.RunDir(meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	trackFile, err := os.Create(filepath.Join(runDir, trackingFile))
	if err != nil {
		return "", err
	}
	defer trackFile.Close()
	if err := points.Encode(trackFile); err != nil {
		return "", err
	}

	csv, err := os.Create(filepath.Join(runDir, csvFile))
	if err != nil {
		return "", err
	}
	defer csv.Close()
	if err := points.WriteCSV(csv); err != nil {
		return "", err
	}

	if len(frames) > 0 {
		if _, err := render.SavePNGs(filepath.Join(runDir, framesDir), frames); err != nil {
			return "", err
		}
	}

	if err := s.catalog.Put(ctx, meta); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// runPrefix turns a scene name into a safe directory name prefix.
func runPrefix(scene string) string {
	prefix := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, scene)
	if prefix == "" {
		return "run"
	}
	return prefix
}

func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." ||
		strings.ContainsAny(runID, `/\`) || filepath.Base(runID) != runID {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns indexed runs newest first. scene filters by scene name when
// non-empty.
func (s *Store) List(ctx context.Context, scene string) ([]RunMetadata, error) {
	if _, err := os.Stat(s.baseDir); os.IsNotExist(err) {
		return []RunMetadata{}, nil
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s.catalog.List(ctx, scene)
}

// Reindex rebuilds the catalog from the run directories on disk and returns
// how many runs were indexed.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	if err := s.Init(); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		if err := s.catalog.Put(ctx, *meta); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadPoints(runID string) (tracking.Points, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.RunDir(runID), trackingFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tracking.Decode(f)
}

// Delete removes a run directory and its catalog row. Only directories
// holding run metadata are removed.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if err := checkRunID(runID); err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(s.RunDir(runID), metadataFile)); err != nil {
		return err
	}
	if err := os.RemoveAll(s.RunDir(runID)); err != nil {
		return err
	}
	return s.catalog.Delete(ctx, runID)
}
