package tabular

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir reads every CSV file in dir and concatenates them row-wise, in
// lexical filename order. All files must agree on labeledness and width.
func LoadDir(dir string, schema Schema) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DataError{Path: dir, Reason: err.Error()}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, &DataError{Path: dir, Reason: "no csv files found"}
	}
	sort.Strings(paths)

	var rows [][]float64
	labeled := false
	for i, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, &DataError{Path: path, Reason: err.Error()}
		}
		ds, err := ReadCSV(file, schema)
		file.Close()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			labeled = ds.Labeled()
		} else if ds.Labeled() != labeled {
			return nil, &DataError{Path: path, Reason: "mixed labeled and unlabeled files"}
		}
		rows = append(rows, ds.rows...)
	}

	return FromRows(schema, rows)
}
