package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const utf8BOM = "\ufeff"

// Reader parses CSV and Excel uploads into rows keyed by the header row.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Parse dispatches on the file content first and on the extension second, so
// a workbook saved with a .csv name is still read as a workbook.
func (r *Reader) Parse(ctx context.Context, filename string, body io.Reader) ([]domain.RawRow, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch kind := detect(data); {
	case kind == kindZip:
		return parseWorkbook(data)
	case kind == kindLegacyExcel:
		return parseLegacyWorkbook(data)
	case kind == kindText && ext == ".csv":
		return parseCSV(data)
	case kind == kindText:
		return nil, fmt.Errorf("%w: %s file contains plain text", domain.ErrCorruptWorkbook, ext)
	default:
		return nil, fmt.Errorf("%w: content is %s", domain.ErrUnsupportedFileType, mimetype.Detect(data).String())
	}
}

type contentKind int

const (
	kindUnknown contentKind = iota
	kindText
	kindZip
	kindLegacyExcel
)

func detect(data []byte) contentKind {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return kindZip
		case m.Is("application/x-ole-storage"):
			return kindLegacyExcel
		case m.Is("text/plain"):
			return kindText
		}
	}
	// Windows-1252 exports are not recognized as text.
	if !bytes.ContainsRune(data, 0) {
		return kindText
	}
	return kindUnknown
}

func parseCSV(data []byte) ([]domain.RawRow, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	text = strings.TrimPrefix(text, utf8BOM)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsFromTable(records)
}

// decodeText returns data as UTF-8, falling back to Windows-1252, the code
// page Excel uses for Portuguese CSV exports.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode csv: %w", err)
	}
	return string(decoded), nil
}

// detectDelimiter picks ';' or ',' by counting both, outside quotes, on the
// header line.
func detectDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}

	var commas, semicolons int
	inQuotes := false
	for _, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semicolons++
			}
		}
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

func parseWorkbook(data []byte) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptWorkbook, err)
	}
	return rowsFromTable(rows)
}

// parseLegacyWorkbook reads the first sheet of a BIFF (.xls) workbook. The
// decoder panics on some malformed streams; those surface as corrupt.
func parseLegacyWorkbook(data []byte) (rows []domain.RawRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %v", domain.ErrCorruptWorkbook, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptWorkbook, err)
	}
	if wb.NumSheets() == 0 {
		return nil, domain.ErrNoSheets
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, domain.ErrNoSheets
	}

	table := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			table = append(table, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, strings.TrimSpace(row.Col(j)))
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		table = append(table, cells)
	}
	return rowsFromTable(table)
}

// rowsFromTable uses the first row as headers. Cells under a blank header are
// dropped; a header seen twice keeps its first non-empty value.
func rowsFromTable(table [][]string) ([]domain.RawRow, error) {
	if len(table) < 2 {
		return nil, domain.ErrNoRows
	}

	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}

	rows := make([]domain.RawRow, 0, len(table)-1)
	for _, record := range table[1:] {
		row := make(domain.RawRow, len(header))
		for i, value := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if existing := row[header[i]]; existing != "" {
				continue
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}
