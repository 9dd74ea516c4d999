// Package sink persists explanations in long format: one record per
// (row, feature, target) contribution, plus the baseline per target.
package sink

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/shapstream/shapley"
)

// Writer receives the results of one session.
type Writer interface {
	WriteBaseline(values []float64) error
	WriteExplanation(e shapley.Explanation) error
	Close() error
}

// Open picks a Writer from the file extension: ".db"/".sqlite" → SQLite,
// anything else → CSV. featureNames label the feature column.
func Open(path string, featureNames []string) (Writer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path, featureNames)
	case ".csv", "":
		return CreateCSV(path, featureNames)
	default:
		return nil, fmt.Errorf("sink: unsupported output %q", path)
	}
}

func featureName(names []string, f int) string {
	if f < len(names) {
		return names[f]
	}

	return fmt.Sprintf("f%d", f)
}
