package producer

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadqual/internal/model"
)

// signalFile is the on-disk shape for offline runs: pre-collected candidates
// grouped by polarity.
type signalFile struct {
	Positive []model.CandidateSignal `json:"positive"`
	Negative []model.CandidateSignal `json:"negative"`
}

// FileDetector serves candidate signals from a JSON file, for offline scoring
// and reproducible runs. The file is read once at construction.
type FileDetector struct {
	signals signalFile
}

// NewFileDetector loads the signal file at path.
func NewFileDetector(path string) (*FileDetector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "producer: read signal file %s", path)
	}
	var sf signalFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, eris.Wrapf(err, "producer: parse signal file %s", path)
	}
	return &FileDetector{signals: sf}, nil
}

// Detect returns the pre-loaded candidates of the requested polarity.
func (d *FileDetector) Detect(_ context.Context, _ model.LeadProfile, polarity model.Polarity) ([]model.CandidateSignal, error) {
	if polarity == model.PolarityNegative {
		return d.signals.Negative, nil
	}
	return d.signals.Positive, nil
}
