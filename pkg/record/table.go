package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Reader reads records from a CSV table. The first row must be Header.
type Reader struct {
	r          *csv.Reader
	headerRead bool
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{r: cr}
}

func (r *Reader) line() int {
	line, _ := r.r.FieldPos(0)
	return line
}

func (r *Reader) readHeader() error {
	r.headerRead = true
	fields, err := r.r.Read()
	if err != nil {
		return r.wrap(err)
	}
	if len(fields) < len(Header) || !slices.Equal(fields[:len(Header)], Header) {
		return &LineError{Line: r.line(), Err: fmt.Errorf("%w: header %q, want %q", ErrMalformedRecord, fields, Header)}
	}
	return nil
}

func (r *Reader) wrap(err error) error {
	if err == io.EOF {
		return err
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LineError{Line: pe.Line, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, pe.Err)}
	}
	return err
}

// Read returns the next record, or io.EOF at the end of the table. An
// empty input is an empty table.
func (r *Reader) Read() (Record, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return Record{}, err
		}
	}
	fields, err := r.r.Read()
	if err != nil {
		return Record{}, r.wrap(err)
	}
	rec, err := Decode(fields)
	if err != nil {
		return Record{}, &LineError{Line: r.line(), Err: err}
	}
	return rec, nil
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// Writer writes records as a CSV table. The header is written before the
// first record, or by Flush if no record was written.
type Writer struct {
	w             *csv.Writer
	headerWritten bool
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

func (w *Writer) writeHeader() error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true
	return w.w.Write(Header)
}

// Write writes one record.
func (w *Writer) Write(r Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	return w.w.Write(r.Fields())
}

// Flush writes any buffered data and reports the first write error.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(records []Record) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Flush()
}
