// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package csv loads delimited text files as datatable sources.
package csv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"dgb/datatable"
)

// Config controls how a delimited file is read.
type Config struct {
	// Delimiter separates fields. Zero means detect from the first line.
	Delimiter rune
	// HasHeaders takes column names from the first record.
	HasHeaders bool
	// TrimSpace trims leading and trailing space from every field.
	TrimSpace bool
	// InferTypes converts integer, float and boolean fields to Go values.
	InferTypes bool
}

// DefaultConfig detects the delimiter, reads headers and infers types.
func DefaultConfig() Config {
	return Config{
		HasHeaders: true,
		TrimSpace:  true,
		InferTypes: true,
	}
}

// candidate delimiters in tie-break order
var delimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter picks the most frequent candidate delimiter on the first
// line, defaulting to a comma.
func DetectDelimiter(line string) rune {
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// DelimiterName returns a human-readable name for the delimiter.
func DelimiterName(d rune) string {
	switch d {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(d)
	}
}

// NewFromFile reads path into a RecordSource. The detected delimiter is
// recorded under the "delimiter" metadata key.
func NewFromFile(path string, cfg Config) (*datatable.RecordSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	ds, err := NewFromReader(f, cfg)
	if err != nil {
		return nil, err
	}
	ds.SetMetadata("path", path)
	return ds, nil
}

// NewFromReader reads delimited records from r into a RecordSource.
func NewFromReader(r io.Reader, cfg Config) (*datatable.RecordSource, error) {
	br := bufio.NewReader(r)
	if cfg.Delimiter == 0 {
		peek, _ := br.Peek(4096)
		firstLine, _, _ := strings.Cut(string(peek), "\n")
		cfg.Delimiter = DetectDelimiter(firstLine)
	}

	reader := csv.NewReader(br)
	reader.Comma = cfg.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = cfg.TrimSpace

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, datatable.ErrEmptyData
	}

	var names []string
	if cfg.HasHeaders {
		names, err = headerNames(records[0], cfg.TrimSpace)
		if err != nil {
			return nil, err
		}
		records = records[1:]
	} else {
		width := 0
		for _, rec := range records {
			width = max(width, len(rec))
		}
		names = make([]string, width)
		for i := range names {
			names[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	rows := make([]datatable.Row, len(records))
	for i, rec := range records {
		row := make(datatable.Row, len(names))
		for c, field := range rec {
			if c >= len(names) {
				break
			}
			if cfg.TrimSpace {
				field = strings.TrimSpace(field)
			}
			if cfg.InferTypes {
				row[names[c]] = parseField(field)
			} else {
				row[names[c]] = field
			}
		}
		rows[i] = row
	}

	ds := datatable.NewRecordSource(rows, names...)
	ds.SetMetadata("delimiter", DelimiterName(cfg.Delimiter))
	return ds, nil
}

func headerNames(header []string, trim bool) ([]string, error) {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if trim {
			h = strings.TrimSpace(h)
		}
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: %s", datatable.ErrDuplicateColumn, h)
		}
		seen[h] = true
		names[i] = h
	}
	return names, nil
}

// parseField converts a field to int64, float64 or bool when it parses as
// one. Empty fields become nil so they render as missing values.
func parseField(s string) interface{} {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
