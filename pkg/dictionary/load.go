package dictionary

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

// headerAliases maps record fields to their accepted column names (all lowercase).
var headerAliases = map[string][]string{
	"character":  {"chinese", "character", "characters", "hanzi", "simplified", "word"},
	"pinyin":     {"pinyin", "pronunciation"},
	"definition": {"english", "definition", "meaning", "translation"},
	"jyutping":   {"jyutping", "cantonese"},
	"example":    {"example", "sentence"},
}

// Import is the result of reading a word list.
type Import struct {
	Words    []hanzi.Word
	Warnings []string
}

type columns struct {
	character, pinyin, definition, jyutping, example int
}

func detectColumns(header []string) (columns, bool) {
	cols := columns{-1, -1, -1, -1, -1}
	found := false
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, aliases := range headerAliases {
			if !slices.Contains(aliases, h) {
				continue
			}
			found = true
			switch field {
			case "character":
				cols.character = i
			case "pinyin":
				cols.pinyin = i
			case "definition":
				cols.definition = i
			case "jyutping":
				cols.jyutping = i
			case "example":
				cols.example = i
			}
		}
	}
	return cols, found
}

// ReadRows turns spreadsheet rows into words.
//
// When the first row is a header, columns are mapped by name: Chinese
// (or character, hanzi, simplified, word), Pinyin, English (or
// definition, meaning, translation), and optionally Jyutping and Example.
// Without a header, columns are character, pinyin, definition in that
// order. Empty rows and rows repeating the header are skipped with a
// warning.
func ReadRows(rows [][]string) (Import, error) {
	var imp Import
	if len(rows) == 0 {
		return imp, errors.New(errors.ErrCodeInvalidInput, "word list is empty")
	}

	cols, hasHeader := detectColumns(rows[0])
	start := 0
	if hasHeader {
		if cols.character == -1 {
			return imp, errors.New(errors.ErrCodeInvalidInput, "required column not found in header: Chinese")
		}
		start = 1
	} else {
		cols = columns{0, 1, 2, -1, -1}
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for n, row := range rows[start:] {
		line := n + start + 1
		w := hanzi.Word{
			Character:  cell(row, cols.character),
			Pinyin:     cell(row, cols.pinyin),
			Definition: cell(row, cols.definition),
			Jyutping:   cell(row, cols.jyutping),
			Example:    cell(row, cols.example),
		}
		if w.Character == "" {
			imp.Warnings = append(imp.Warnings, fmt.Sprintf("row %d: empty character, skipped", line))
			continue
		}
		if hasHeader && strings.EqualFold(w.Character, cell(rows[0], cols.character)) {
			imp.Warnings = append(imp.Warnings, fmt.Sprintf("row %d: repeated header, skipped", line))
			continue
		}
		if err := w.Validate(); err != nil {
			imp.Warnings = append(imp.Warnings, fmt.Sprintf("row %d: %s, skipped", line, errors.UserMessage(err)))
			continue
		}
		imp.Words = append(imp.Words, w)
	}
	return imp, nil
}

// ReadCSV reads a comma, semicolon or tab separated word list.
func ReadCSV(r io.Reader) (Import, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Import{}, fmt.Errorf("read csv: %w", err)
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.Comma = detectDelimiter(string(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Import{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cannot parse CSV")
	}
	return ReadRows(rows)
}

// detectDelimiter picks the separator that splits the first line into the
// most fields.
func detectDelimiter(data string) rune {
	first, _, _ := strings.Cut(data, "\n")
	best, most := ',', strings.Count(first, ",")
	for _, d := range []rune{'\t', ';'} {
		if n := strings.Count(first, string(d)); n > most {
			best, most = d, n
		}
	}
	return best
}

// ReadXLSX reads the first sheet of an Excel workbook.
func ReadXLSX(path string) (Import, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Import{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cannot open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Import{}, errors.New(errors.ErrCodeInvalidFormat, "Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Import{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cannot read Excel data")
	}
	return ReadRows(rows)
}

// ReadFile reads a word list, choosing the format by file extension.
func ReadFile(path string) (Import, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Import{}, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return Import{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "word list not found: %s", path)
			}
			return Import{}, fmt.Errorf("open word list: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return Import{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported word list format: %q", ext)
	}
}

// Load reads a CSV word list into a dictionary.
func Load(r io.Reader) (*Dictionary, error) {
	imp, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return New(imp.Words), nil
}

// LoadFile reads a CSV or XLSX word list into a dictionary.
func LoadFile(path string) (*Dictionary, error) {
	imp, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(imp.Words), nil
}
