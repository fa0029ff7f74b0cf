package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func fixtureMeta() *RunMetadata {
	return &RunMetadata{
		ID:         "epidemic_1",
		Model:      "epidemic",
		Integrator: "rk4",
		Horizon:    365,
		Samples:    2,
		Columns:    []string{"S", "E"},
		Metrics:    map[string]float64{"total_deaths": 12.5},
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	states := [][]float64{{998, 0}, {990, 3}}
	times := []float64{0, 1}

	if err := ExportJSON(&buf, fixtureMeta(), states, times); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if data.ID != "epidemic_1" || data.Model != "epidemic" {
		t.Errorf("metadata fields lost: %+v", data)
	}
	if len(data.States) != 2 || data.States[1][0] != 990 {
		t.Errorf("states lost: %v", data.States)
	}
	if data.Metrics["total_deaths"] != 12.5 {
		t.Errorf("metrics lost: %v", data.Metrics)
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSONFile(path, fixtureMeta(), [][]float64{{1, 2}}, []float64{0}); err != nil {
		t.Fatalf("ExportJSONFile: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if len(data.Times) != 1 {
		t.Errorf("times lost: %v", data.Times)
	}
}
