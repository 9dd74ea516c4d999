package sink

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/katalvlaran/shapstream/shapley"
)

// BaselineRowID labels baseline records in CSV output.
const BaselineRowID = "__baseline__"

// CSV writes `row_id,feature,target,contribution` records.
// Baseline values use row_id BaselineRowID and an empty feature.
type CSV struct {
	c     io.Closer
	w     *csv.Writer
	names []string
}

// CreateCSV creates (truncates) path.
func CreateCSV(path string, featureNames []string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s, err := NewCSV(f, featureNames)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	return s, nil
}

// NewCSV writes the header to wc.
func NewCSV(wc io.WriteCloser, featureNames []string) (*CSV, error) {
	s := &CSV{c: wc, w: csv.NewWriter(wc), names: featureNames}
	if err := s.w.Write([]string{"row_id", "feature", "target", "contribution"}); err != nil {
		return nil, err
	}

	return s, nil
}

// WriteBaseline writes one record per target.
func (s *CSV) WriteBaseline(values []float64) error {
	for t, v := range values {
		if err := s.w.Write([]string{BaselineRowID, "", strconv.Itoa(t), formatFloat(v)}); err != nil {
			return err
		}
	}

	return nil
}

// WriteExplanation writes one record per (feature, target).
func (s *CSV) WriteExplanation(e shapley.Explanation) error {
	for f := 0; f < e.Features(); f++ {
		name := featureName(s.names, f)
		for t := 0; t < e.Targets(); t++ {
			if err := s.w.Write([]string{e.RowID, name, strconv.Itoa(t), formatFloat(e.Contribution(f, t))}); err != nil {
				return err
			}
		}
	}

	return nil
}

// Close flushes and closes the file.
func (s *CSV) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.c.Close()

		return err
	}

	return s.c.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
