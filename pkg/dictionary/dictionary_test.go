package dictionary

import (
	stderrors "errors"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.Len() != 149 {
		t.Errorf("Len() = %d, want 149", d.Len())
	}
	w, ok := d.Lookup("水")
	if !ok || w.Pinyin != "shuǐ" || w.Definition != "water" {
		t.Errorf("Lookup(水) = %+v, %v", w, ok)
	}
	if Default() != d {
		t.Error("Default() should return the same dictionary")
	}
}

func TestNewDeduplicates(t *testing.T) {
	d := New([]hanzi.Word{
		{Character: "水", Definition: "water"},
		{Character: " 水 ", Definition: "duplicate"},
		{Character: ""},
		{Character: "火"},
	})
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if w, _ := d.Lookup("水"); w.Definition != "water" {
		t.Errorf("first entry should win, got %q", w.Definition)
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantWords []string
		wantWarn  int
		wantErr   bool
	}{
		{
			name:      "standard header",
			input:     "Chinese,Pinyin,English\n水,shuǐ,water\n火,huǒ,fire\n",
			wantWords: []string{"水", "火"},
		},
		{
			name:      "aliases and reordered columns",
			input:     "definition,hanzi,pinyin\nwater,水,shuǐ\n",
			wantWords: []string{"水"},
		},
		{
			name:      "no header",
			input:     "水,shuǐ,water\n",
			wantWords: []string{"水"},
		},
		{
			name:      "tab separated",
			input:     "Chinese\tPinyin\tEnglish\n水\tshuǐ\twater, liquid\n",
			wantWords: []string{"水"},
		},
		{
			name:      "skips empty and repeated header rows",
			input:     "Chinese,Pinyin,English\n,,\nChinese,Pinyin,English\n水,shuǐ,water\n",
			wantWords: []string{"水"},
			wantWarn:  2,
		},
		{
			name:      "skips invalid character",
			input:     "Chinese,Pinyin,English\n123,,\n水,shuǐ,water\n",
			wantWords: []string{"水"},
			wantWarn:  1,
		},
		{
			name:    "header without character column",
			input:   "Pinyin,English\nshuǐ,water\n",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := ReadCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			var got []string
			for _, w := range imp.Words {
				got = append(got, w.Character)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantWords, ",") {
				t.Errorf("words = %v, want %v", got, tt.wantWords)
			}
			if len(imp.Warnings) != tt.wantWarn {
				t.Errorf("warnings = %v, want %d", imp.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestReadFileXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Chinese", "Pinyin", "English"},
		{"你好", "nǐ hǎo", "hello"},
		{"谢谢", "xièxie", "thank you"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}
	f.Close()

	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if w, ok := d.Lookup("谢谢"); !ok || w.Definition != "thank you" {
		t.Errorf("Lookup(谢谢) = %+v, %v", w, ok)
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing csv", filepath.Join(dir, "missing.csv"), errors.ErrCodeFileNotFound},
		{"unsupported", filepath.Join(dir, "words.pdf"), errors.ErrCodeInvalidFormat},
		{"empty path", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadFile() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFoldPinyin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nǐ hǎo", "nihao"},
		{"ni3 hao3", "nihao"},
		{"NiHao", "nihao"},
		{"nǚ'ér", "nuer"},
		{"Běijīng", "beijing"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FoldPinyin(tt.in); got != tt.want {
			t.Errorf("FoldPinyin(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func chars(words []hanzi.Word) string {
	s := make([]string, len(words))
	for i, w := range words {
		s[i] = w.Character
	}
	return strings.Join(s, ",")
}

func TestSearch(t *testing.T) {
	d := Default()
	tests := []struct {
		name  string
		query string
		limit int
		want  string
	}{
		{"exact character first", "水", 0, "水,水果"},
		{"tone-insensitive pinyin", "shui", 0, "水,水果,睡觉"},
		{"pinyin with tone marks", "shuǐ", 1, "水"},
		{"definition", "WATER", 0, "水"},
		{"limit", "to", 3, ""},
		{"no match", "xyzzy", 0, ""},
		{"empty", "  ", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Search(tt.query, tt.limit)
			if tt.name == "limit" {
				if len(got) != 3 {
					t.Errorf("len(Search()) = %d, want 3", len(got))
				}
				return
			}
			if chars(got) != tt.want {
				t.Errorf("Search(%q) = %s, want %s", tt.query, chars(got), tt.want)
			}
		})
	}
}

func TestSearchExactCharacterBeatsPinyin(t *testing.T) {
	d := New([]hanzi.Word{
		{Character: "他们", Pinyin: "tāmen"},
		{Character: "ta", Pinyin: "x"},
		{Character: "他", Pinyin: "tā"},
	})
	got := d.Search("ta", 0)
	if len(got) == 0 || got[0].Character != "ta" {
		t.Errorf("Search(ta) = %s, want ta first", chars(got))
	}
}

func TestSuggest(t *testing.T) {
	d := New([]hanzi.Word{{Character: "一"}, {Character: "二"}, {Character: "三"}})
	rng := rand.New(rand.NewPCG(1, 2))

	known := map[string]bool{"一": true, "三": true}
	for range 50 {
		w, err := d.Suggest(func(c string) bool { return known[c] }, rng)
		if err != nil {
			t.Fatalf("Suggest() error: %v", err)
		}
		if w.Character != "二" {
			t.Fatalf("Suggest() = %s, want 二", w.Character)
		}
	}

	seen := map[string]bool{}
	for range 200 {
		w, _ := d.Suggest(nil, rng)
		seen[w.Character] = true
	}
	if len(seen) != 3 {
		t.Errorf("Suggest(nil) covered %d words, want 3", len(seen))
	}
}

func TestSuggestExhausted(t *testing.T) {
	d := New([]hanzi.Word{{Character: "一"}})
	_, err := d.Suggest(func(string) bool { return true }, nil)
	if !stderrors.Is(err, ErrExhausted) {
		t.Errorf("Suggest() error = %v, want ErrExhausted", err)
	}
	if !errors.Is(err, errors.ErrCodeExhausted) {
		t.Errorf("Suggest() code = %v", errors.GetCode(err))
	}

	_, err = New(nil).Suggest(nil, nil)
	if !stderrors.Is(err, ErrExhausted) {
		t.Errorf("empty dictionary Suggest() error = %v", err)
	}
}
