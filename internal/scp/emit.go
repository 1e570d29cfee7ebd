package scp

import (
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
)

// WriteSCP emits one callsign per line.
func WriteSCP(w io.Writer, cc CallCounts) error {
	for _, call := range cc.Sorted() {
		if _, err := fmt.Fprintln(w, call); err != nil {
			return err
		}
	}
	return nil
}

// WriteXSCP emits "CALL count" lines.
func WriteXSCP(w io.Writer, cc CallCounts) error {
	for _, call := range cc.Sorted() {
		if _, err := fmt.Fprintf(w, "%s %d\n", call, cc[call]); err != nil {
			return err
		}
	}
	return nil
}

// csvRecord is one row of the CSV output form.
type csvRecord struct {
	Call  string `csv:"call"`
	Count int    `csv:"count"`
}

// WriteCSV emits call,count records with a header row.
func WriteCSV(w io.Writer, cc CallCounts) error {
	records := make([]csvRecord, 0, len(cc))
	for _, call := range cc.Sorted() {
		records = append(records, csvRecord{Call: call, Count: cc[call]})
	}

	data, err := csvutil.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding CSV: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteCSVFile writes the CSV form to path.
func WriteCSVFile(path string, cc CallCounts) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, cc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
