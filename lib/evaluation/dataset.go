package evaluation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// required column names
const (
	MessageColumn = "sms"
	LabelColumn   = "label"
)

// Dataset is a labeled table parsed from CSV, the first line is the header
type Dataset struct {
	Columns []string
	Records [][]string
}

// ValidationError reports missing required columns
type ValidationError struct {
	Missing []string
	err     error
}

// Error returns a message naming both required columns, as users need to fix the whole header at once
func (e *ValidationError) Error() string {
	return fmt.Sprintf("CSV must contain '%s' and '%s' columns: %v", MessageColumn, LabelColumn, e.err)
}

// Unwrap returns the underlying multierror with one entry per missing column
func (e *ValidationError) Unwrap() error { return e.err }

// ReadCSV parses CSV with a header line. Rows with a different number of fields than the header are rejected.
func ReadCSV(r io.Reader) (*Dataset, error) {
	rdr := csv.NewReader(r)
	header, err := rdr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv, header line expected")
		}
		return nil, fmt.Errorf("can't read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff") // excel likes to add BOM
	}

	records, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read csv records: %w", err)
	}
	return &Dataset{Columns: header, Records: records}, nil
}

// Len returns number of rows
func (d *Dataset) Len() int { return len(d.Records) }

// Validate checks presence of required columns by exact name
func (d *Dataset) Validate() error {
	res := &ValidationError{}
	var errs *multierror.Error
	for _, col := range []string{MessageColumn, LabelColumn} {
		if d.column(col) < 0 {
			res.Missing = append(res.Missing, col)
			errs = multierror.Append(errs, fmt.Errorf("column %q is missing", col))
		}
	}
	if errs.ErrorOrNil() == nil {
		return nil
	}
	errs.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, ", ")
	}
	res.err = errs
	return res
}

// Messages returns values of the message column in row order
func (d *Dataset) Messages() []string { return d.values(MessageColumn) }

// Labels returns values of the label column in row order
func (d *Dataset) Labels() []string { return d.values(LabelColumn) }

func (d *Dataset) values(name string) []string {
	idx := d.column(name)
	if idx < 0 {
		return nil
	}
	res := make([]string, len(d.Records))
	for i, rec := range d.Records {
		res[i] = rec[idx]
	}
	return res
}

// column returns index of the first column with the exact name or -1
func (d *Dataset) column(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
