package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"

	"github.com/xuri/excelize/v2"
)

// TableReader streams the rows of a tabular export as raw strings.
// Next returns io.EOF after the last row.
type TableReader interface {
	Header() []string
	Next() ([]string, error)
	Close() error
}

var (
	delimitedExts   = map[string]bool{".csv": true, ".tsv": true, ".txt": true}
	spreadsheetExts = map[string]bool{".xlsx": true, ".xlsm": true}
)

// IsSupportedFile reports whether the directory scan should pick up name
func IsSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return delimitedExts[ext] || spreadsheetExts[ext]
}

// OpenTable picks a reader from the file extension
func OpenTable(path string) (TableReader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case delimitedExts[ext]:
		return openDelimited(path)
	case spreadsheetExts[ext]:
		return openSpreadsheet(path)
	}
	return nil, common.NewCoreError(constants.ErrCodeUnsupportedFormat,
		fmt.Sprintf("unsupported file extension %q", ext), nil)
}

type delimitedReader struct {
	file   *os.File
	csv    *csv.Reader
	header []string
}

func openDelimited(path string) (*delimitedReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	// Drop a UTF-8 BOM left by spreadsheet exports
	if bom, _ := br.Peek(3); bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	// Peek returns what is available when the file is shorter than the buffer
	sample, _ := br.Peek(4096)
	delim := sniffDelimiter(sample)

	r := csv.NewReader(br)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	header, err := r.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("file has no header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &delimitedReader{file: f, csv: r, header: header}, nil
}

// sniffDelimiter picks the candidate that occurs most often in the first line
func sniffDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(sample, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func (r *delimitedReader) Header() []string { return r.header }

func (r *delimitedReader) Next() ([]string, error) {
	return r.csv.Read()
}

func (r *delimitedReader) Close() error { return r.file.Close() }

type spreadsheetReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
}

func openSpreadsheet(path string) (*spreadsheetReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open sheet %s: %w", sheets[0], err)
	}

	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("sheet %s has no header row", sheets[0])
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &spreadsheetReader{file: f, rows: rows, header: header}, nil
}

func (r *spreadsheetReader) Header() []string { return r.header }

func (r *spreadsheetReader) Next() ([]string, error) {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return r.rows.Columns()
}

func (r *spreadsheetReader) Close() error {
	rowsErr := r.rows.Close()
	if err := r.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
