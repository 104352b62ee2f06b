package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved evaluation.
type RunMetadata struct {
	ID          string             `json:"id"`
	Command     string             `json:"command"`
	Interaction string             `json:"interaction"`
	Params      map[string]float64 `json:"params,omitempty"`
	Boundary    string             `json:"boundary"`
	Box         []float64          `json:"box,omitempty"`
	Shear       float64            `json:"shear,omitempty"`
	Layout      string             `json:"layout"`
	Dim         int                `json:"dim"`
	NumAtoms    int                `json:"num_atoms"`
	Timestamp   time.Time          `json:"timestamp"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
	Energy      float64            `json:"energy"`
	GradNorm    float64            `json:"grad_norm,omitempty"`
	Eigenvalues []float64          `json:"eigenvalues,omitempty"`
}

// Result is what a command hands to Save. Gradient is particle-major and may
// be empty for energy-only runs.
type Result struct {
	Meta     RunMetadata
	Gradient []float64
}

// Save writes metadata.json and, when a gradient is present, gradient.csv
// into a fresh run directory and returns the run ID.
func (s *Store) Save(res *Result) (string, error) {
	meta := res.Meta
	if len(res.Gradient) > 0 && (meta.Dim < 1 || len(res.Gradient)%meta.Dim != 0) {
		return "", fmt.Errorf("storage: gradient length %d not divisible by dim %d", len(res.Gradient), meta.Dim)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runID := fmt.Sprintf("%s_%s_%d", meta.Command, meta.Interaction, meta.Timestamp.UnixNano())
	meta.ID = runID
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if len(res.Gradient) == 0 {
		return runID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, "gradient.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"particle"}
	for k := 0; k < meta.Dim; k++ {
		header = append(header, fmt.Sprintf("g%d", k))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := 0; i < len(res.Gradient)/meta.Dim; i++ {
		row := []string{strconv.Itoa(i)}
		for _, val := range res.Gradient[i*meta.Dim : (i+1)*meta.Dim] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns the metadata of every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadGradient reads gradient.csv back into a particle-major vector.
func (s *Store) LoadGradient(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "gradient.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}

	grad := make([]float64, 0, (len(records)-1)*(len(records[0])-1))
	for _, record := range records[1:] {
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad gradient entry %q: %w", field, err)
			}
			grad = append(grad, val)
		}
	}
	return grad, nil
}
