// Package rowreader splits an input stream into table rows, one row at a
// time, so rows can be printed as soon as they arrive.
package rowreader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a row encoding.
type Format string

const (
	// FormatTSV is one row per line, columns separated by tabs.
	FormatTSV Format = "tsv"
	// FormatCSV is RFC 4180 CSV; quoted fields may span lines.
	FormatCSV Format = "csv"
	// FormatJSONL is a stream of JSON values: arrays are rows, objects are
	// rows keyed by field name, scalars are one-column rows.
	FormatJSONL Format = "jsonl"
	// FormatYAML is a stream of YAML documents separated by ---, laid out
	// like FormatJSONL.
	FormatYAML Format = "yaml"
	// FormatFields is one row per line, columns separated by runs of
	// whitespace.
	FormatFields Format = "fields"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTSV, FormatCSV, FormatJSONL, FormatYAML, FormatFields}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tsv", "tab":
		return FormatTSV, nil
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson", "json":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "fields", "ws", "whitespace":
		return FormatFields, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want tsv, csv, jsonl, yaml or fields)", name)
	}
}

const maxLineSize = 1024 * 1024

// Reader yields rows from an input stream.
type Reader struct {
	format  Format
	lines   *bufio.Scanner
	csv     *csv.Reader
	json    *json.Decoder
	yaml    *yaml.Decoder
	keys    []string
	keySet  map[string]bool
	lineNum int
}

// New returns a Reader decoding r as format.
func New(r io.Reader, format Format) (*Reader, error) {
	rd := &Reader{format: format}
	switch format {
	case FormatTSV, FormatFields:
		rd.lines = bufio.NewScanner(r)
		rd.lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	case FormatCSV:
		rd.csv = csv.NewReader(r)
		rd.csv.FieldsPerRecord = -1
	case FormatJSONL:
		rd.json = json.NewDecoder(r)
		rd.json.UseNumber()
	case FormatYAML:
		rd.yaml = yaml.NewDecoder(r)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	return rd, nil
}

// Keys returns the object field names seen so far in a JSONL or YAML stream, in
// column order. It is nil until the first object has been read.
func (r *Reader) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Next returns the next row, or io.EOF once the input is exhausted.
func (r *Reader) Next() ([]string, error) {
	switch r.format {
	case FormatCSV:
		row, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		return row, nil
	case FormatJSONL:
		return r.nextJSON()
	case FormatYAML:
		return r.nextYAML()
	default:
		return r.nextLine()
	}
}

func (r *Reader) nextLine() ([]string, error) {
	if !r.lines.Scan() {
		if err := r.lines.Err(); err != nil {
			return nil, fmt.Errorf("read line %d: %w", r.lineNum+1, err)
		}
		return nil, io.EOF
	}
	r.lineNum++
	line := strings.TrimSuffix(r.lines.Text(), "\r")
	if r.format == FormatFields {
		return strings.Fields(line), nil
	}
	return strings.Split(line, "\t"), nil
}

func (r *Reader) nextJSON() ([]string, error) {
	var value any
	if err := r.json.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to parse JSON row: %w", err)
	}
	return r.rowFromValue(value), nil
}

func (r *Reader) nextYAML() ([]string, error) {
	var value any
	if err := r.yaml.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to parse YAML document: %w", err)
	}
	return r.rowFromValue(value), nil
}

// rowFromValue lays out a decoded document: sequences are rows, mappings are
// rows keyed by field name, anything else is a one-column row.
func (r *Reader) rowFromValue(value any) []string {
	switch v := value.(type) {
	case []any:
		row := make([]string, len(v))
		for i, item := range v {
			row[i] = cell(item)
		}
		return row
	case map[string]any:
		r.addKeys(v)
		row := make([]string, len(r.keys))
		for i, k := range r.keys {
			if item, ok := v[k]; ok {
				row[i] = cell(item)
			}
		}
		return row
	default:
		return []string{cell(v)}
	}
}

// addKeys appends keys not seen before, sorted, so columns keep their
// position across objects.
func (r *Reader) addKeys(obj map[string]any) {
	if r.keySet == nil {
		r.keySet = make(map[string]bool, len(obj))
	}
	var added []string
	for k := range obj {
		if !r.keySet[k] {
			r.keySet[k] = true
			added = append(added, k)
		}
	}
	sort.Strings(added)
	r.keys = append(r.keys, added...)
}

// cell renders a decoded value as column text: strings unquoted, nulls
// empty, containers as compact JSON.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(x); err != nil {
			return fmt.Sprint(x)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}
