package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fluidsim/internal/sim"
)

var ErrMalformed = errors.New("storage: malformed run file")

var frameHeader = []string{"frame", "mass", "peak", "probe", "max_speed"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	N         int                `json:"n"`
	Diffusion float64            `json:"diffusion"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	Sources   int                `json:"sources"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json, frames.csv and
// density.csv and returns the run id. meta.ID and meta.Timestamp are
// filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = len(result.Frames)
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, "frames.csv"), result.Frames); err != nil {
		return "", err
	}
	if err := writeDensity(filepath.Join(runDir, "density.csv"), result.N, result.Density); err != nil {
		return "", err
	}

	return runID, nil
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

func writeFrames(path string, frames []sim.FrameStat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, st := range frames {
		row := []string{
			strconv.Itoa(st.Frame),
			formatFloat(st.Mass),
			formatFloat(st.Peak),
			formatFloat(st.Probe),
			formatFloat(st.MaxSpeed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeDensity stores the full (n+2)x(n+2) lattice, one row per y.
func writeDensity(path string, n int, density []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	side := n + 2
	for y := 0; y < side && (y+1)*side <= len(density); y++ {
		row := make([]string, side)
		for x := 0; x < side; x++ {
			row[x] = formatFloat(density[x+side*y])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, metaPath, err)
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.FrameStat, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.FrameStat{}, nil
	}

	frames := make([]sim.FrameStat, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(frameHeader) {
			return nil, fmt.Errorf("%w: frames.csv line %d has %d fields", ErrMalformed, i+2, len(record))
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: frames.csv line %d: %v", ErrMalformed, i+2, err)
		}
		vals, err := parseFloats(record[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: frames.csv line %d: %v", ErrMalformed, i+2, err)
		}
		frames = append(frames, sim.FrameStat{
			Frame:    frame,
			Mass:     vals[0],
			Peak:     vals[1],
			Probe:    vals[2],
			MaxSpeed: vals[3],
		})
	}
	return frames, nil
}

// LoadDensity returns the stored final density as rows of the lattice.
func (s *Store) LoadDensity(runID string) ([][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "density.csv"))
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, 0, len(records))
	for i, record := range records {
		row, err := parseFloats(record)
		if err != nil {
			return nil, fmt.Errorf("%w: density.csv line %d: %v", ErrMalformed, i+1, err)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
