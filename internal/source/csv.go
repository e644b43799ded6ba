// Package source supplies the upstream URL list the route table is built
// from. The on-disk format is the api-calls summary CSV: a header row with
// a "url" column, plus whatever capture columns (status, response file)
// the recording tool wrote — everything except the url is ignored here.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads the summary file at path and returns its url column,
// deduplicated in first-occurrence order.
func LoadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening url source: %w", err)
	}
	defer f.Close()

	urls, err := ReadURLs(f)
	if err != nil {
		return nil, fmt.Errorf("reading url source %q: %w", path, err)
	}
	return urls, nil
}

// ReadURLs parses CSV data and extracts distinct url values. The reader is
// deliberately tolerant: ragged rows and sloppy quoting are accepted, rows
// with a blank or missing url are skipped. Only a missing url column in
// the header is an error — that means the file is not a summary file at
// all.
func ReadURLs(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	urlIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "url") {
			urlIdx = i
			break
		}
	}
	if urlIdx < 0 {
		return nil, fmt.Errorf("no url column in header %v", header)
	}

	var urls []string
	seen := make(map[string]struct{})
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row; the rest of the file is still usable.
			continue
		}
		if urlIdx >= len(row) {
			continue
		}
		u := strings.TrimSpace(row[urlIdx])
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls, nil
}
