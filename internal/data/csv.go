package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	apperrors "screening/internal/errors"
	"screening/internal/features"
)

const labelColumn = "label"

func (d *Dataset) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := d.Encode(f); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes the dataset as CSV with the schema feature names as header.
func (d *Dataset) Encode(out io.Writer) error {
	w := csv.NewWriter(out)
	header := append(d.Schema.FeatureNames(), labelColumn)
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, s := range d.Samples {
		for j, x := range s.Features {
			rec[j] = strconv.FormatFloat(x, 'f', -1, 64)
		}
		rec[len(rec)-1] = strconv.Itoa(s.Label)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReadCSV(path string, schema *features.Schema) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, schema)
}

// Decode reads a dataset written by Encode, rejecting headers of another schema.
func Decode(in io.Reader, schema *features.Schema) (*Dataset, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = features.NumFeatures + 1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[len(header)-1] != labelColumn {
		return nil, apperrors.NewSchemaMismatchError("last column must be "+labelColumn, map[string]string{"got": header[len(header)-1]})
	}
	if err := schema.Matches(schema.Ref(), header[:features.NumFeatures]); err != nil {
		return nil, err
	}

	ds := &Dataset{Schema: schema}
	row := make([]float64, features.NumFeatures)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for j := 0; j < features.NumFeatures; j++ {
			row[j], err = strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, header[j], err)
			}
		}
		v, err := schema.FromSlice(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		label, err := strconv.Atoi(rec[features.NumFeatures])
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("line %d: label must be 0 or 1, got %q", line, rec[features.NumFeatures])
		}
		ds.Samples = append(ds.Samples, LabeledSample{Features: v, Label: label})
	}
	return ds, nil
}
