package records

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var gzipMagic = []byte{0x1f, 0x8b}

// ReadDataset parses a CSV stream that may be gzip-compressed. Compression is
// detected from the magic bytes, so the file name does not matter.
func ReadDataset(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("peek: %w", err)
	}
	if bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return ReadCSV(zr)
	}
	return ReadCSV(br)
}

// ReadCSV parses a header-first CSV into rows in file order. A leading byte order
// mark is honoured and stripped. Rows shorter than the header simply lack the
// trailing columns; cells beyond the header are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, cell := range header {
		cols[i] = strings.TrimSpace(cell)
	}

	rows := []Row{}
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if col == "" || i >= len(rec) {
				continue
			}
			if _, dup := row[col]; dup {
				continue
			}
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
