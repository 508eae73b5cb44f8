package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/manifest/internal/manifest"
	"github.com/nconklindev/manifest/internal/types"

	"github.com/xuri/excelize/v2"
)

// HeaderSearchLimit is how many leading rows findHeaderRow inspects.
const HeaderSearchLimit = 20

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
	ErrNoHeaderRow     = errors.New("could not find header row")
	ErrBadFilename     = errors.New("export filename is not a plain file name")
)

// AllowedTypes lists the extensions ReadFileData understands.
var AllowedTypes = []string{".xlsx", ".csv"}

// AcquisitionError wraps anything that stopped a source file from being read.
type AcquisitionError struct {
	Path string
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("could not read %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// LoadRows reads the first sheet of a spreadsheet and returns its data rows
// keyed by header.
func LoadRows(filePath string) ([]manifest.RawRow, error) {
	data, err := ReadFileData(filePath)
	if err != nil {
		return nil, err
	}
	return RawRows(data), nil
}

// ReadFileData reads headers and data rows from a file
func ReadFileData(filePath string) (*types.FileData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var (
		data *types.FileData
		err  error
	)
	switch ext {
	case ".csv":
		data, err = readCSVData(filePath)
	case ".xlsx":
		data, err = readXLSXData(filePath)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err != nil {
		return nil, &AcquisitionError{Path: filePath, Err: err}
	}
	return data, nil
}

// RawRows turns file data into header-keyed rows. Missing cells become empty
// strings, blank rows are dropped, blank headers are ignored and repeated
// headers get a numeric suffix.
func RawRows(data *types.FileData) []manifest.RawRow {
	headers := uniqueHeaders(data.Headers)

	rows := make([]manifest.RawRow, 0, len(data.Rows))
	for _, cells := range data.Rows {
		if isBlankRow(cells) {
			continue
		}

		row := make(manifest.RawRow, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row[header] = value
		}
		rows = append(rows, row)
	}
	return rows
}

func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		if n := seen[h]; n > 0 {
			out[i] = fmt.Sprintf("%s_%d", h, n)
		} else {
			out[i] = h
		}
		seen[h]++
	}
	return out
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSVData(filePath string) (*types.FileData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := records[0]
	if len(headers) > 0 {
		// Excel prefixes UTF-8 CSV exports with a byte order mark
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	return &types.FileData{
		Headers: headers,
		Rows:    records[1:],
	}, nil
}

func readXLSXData(filePath string) (*types.FileData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	// Raw values keep numeric cells (quantities, ISBNs) free of display formatting.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, ErrNoHeaderRow
	}

	return &types.FileData{
		Headers:   rows[headerRowIdx],
		Rows:      rows[headerRowIdx+1:],
		HeaderRow: headerRowIdx,
	}, nil
}

// findHeaderRow locates the header among the first HeaderSearchLimit rows.
// The first row naming a known manifest column wins. Failing that, the first
// row with at least two cells and some text, then the first non-empty row.
// A later row never outranks an earlier candidate, so wide data rows stay data.
func findHeaderRow(rows [][]string) int {
	textIdx := -1
	firstNonEmpty := -1

	searchLimit := min(len(rows), HeaderSearchLimit)

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			nonEmptyCount++
			if isKnownHeader(trimmed) {
				return i
			}
			// Check if cell contains actual text (not just numbers or symbols)
			if containsLetters(trimmed) {
				hasText = true
			}
		}

		if nonEmptyCount > 0 && firstNonEmpty == -1 {
			firstNonEmpty = i
		}
		if nonEmptyCount >= 2 && hasText && textIdx == -1 {
			textIdx = i
		}
	}

	if textIdx != -1 {
		return textIdx
	}
	return firstNonEmpty
}

func isKnownHeader(cell string) bool {
	if cell == manifest.ReferenceColumn || cell == manifest.ISBNColumn {
		return true
	}
	for _, alias := range manifest.QuantityAliases {
		if strings.EqualFold(cell, alias) {
			return true
		}
	}
	return false
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// WriteManifest writes the store's serialization into outputDir under the
// store's suggested file name.
func WriteManifest(store *manifest.Store, inputFile, outputDir string) (*types.ExportResult, error) {
	content, err := store.Serialize()
	if err != nil {
		return nil, err
	}
	name, err := store.Filename()
	if err != nil {
		return nil, err
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrBadFilename, name)
	}

	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outputFile := filepath.Join(outputDir, name)
	if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	records := store.Records()
	return &types.ExportResult{
		InputFile:      inputFile,
		OutputFile:     outputFile,
		TrackingRef:    records[0].TrackingRef,
		RecordsWritten: len(records),
	}, nil
}
