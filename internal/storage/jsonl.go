// Package storage keeps an archive of parsed documents in JSONL format.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wilsvd/teiparse/internal/document"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines.
// A full document with its bibliography is far larger than a reference.
const MaxJSONLLineCapacity = 16 * 1024 * 1024

// Record is one archived document and where it came from.
type Record struct {
	Source   string             `json:"source"` // File name or URL the TEI came from
	ParsedAt time.Time          `json:"parsed_at"`
	Document *document.Document `json:"document"`
}

// DOI returns the DOI of the archived article, if it has one.
func (r Record) DOI() string {
	if r.Document == nil || r.Document.Bibliography.IDs == nil {
		return ""
	}
	return r.Document.Bibliography.IDs.DOI
}

// ReadAll reads all records from a JSONL file.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file is an empty archive
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return records, nil
}

// Append adds a record to the end of a JSONL file.
func Append(path string, rec Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening archive for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// WriteAll writes all records to a JSONL file, replacing existing content.
func WriteAll(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	return nil
}

// Upsert replaces the record with the same source, or appends rec when
// there is none. It reports whether an existing record was replaced.
func Upsert(path string, rec Record) (bool, error) {
	records, err := ReadAll(path)
	if err != nil {
		return false, err
	}
	idx, found := FindBySource(records, rec.Source)
	if !found {
		return false, Append(path, rec)
	}
	records[idx] = rec
	return true, WriteAll(path, records)
}

// FindBySource searches for a record by its source.
func FindBySource(records []Record, source string) (int, bool) {
	if source == "" {
		return -1, false
	}
	for i, rec := range records {
		if rec.Source == source {
			return i, true
		}
	}
	return -1, false
}

// FindByDOI searches for a record by the DOI of its article.
func FindByDOI(records []Record, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, rec := range records {
		if rec.DOI() == doi {
			return i, true
		}
	}
	return -1, false
}
