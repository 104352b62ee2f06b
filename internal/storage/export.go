package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the single-document form of a saved run.
type ExportData struct {
	RunMetadata
	Gradient [][]float64 `json:"gradient,omitempty"`
}

// Export loads a run and its gradient, if any, as one document.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{RunMetadata: *meta}

	grad, err := s.LoadGradient(runID)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if meta.Dim > 0 {
		for i := 0; i+meta.Dim <= len(grad); i += meta.Dim {
			data.Gradient = append(data.Gradient, grad[i:i+meta.Dim])
		}
	}
	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, data)
}
