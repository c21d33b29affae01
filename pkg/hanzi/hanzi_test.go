package hanzi

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/hanzitree/pkg/errors"
)

func TestWordValidate(t *testing.T) {
	tests := []struct {
		name    string
		word    Word
		wantErr bool
	}{
		{"valid", Word{Character: "水", Pinyin: "shuǐ"}, false},
		{"empty", Word{}, true},
		{"negative familiarity", Word{Character: "水", Familiarity: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.word.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidCharacter) {
				t.Errorf("Validate() code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestWordNormalize(t *testing.T) {
	w := Word{Character: " 水 ", Pinyin: "shuǐ\t", Definition: " water "}.Normalize()
	if w.Character != "水" || w.Pinyin != "shuǐ" || w.Definition != "water" {
		t.Errorf("Normalize() = %+v", w)
	}
}

func TestCharacterJSON(t *testing.T) {
	freq := 0.5
	c := Character{
		ID:        7,
		Word:      Word{Character: "水", Pinyin: "shuǐ", Frequency: &freq},
		CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"id":7`, `"character":"水"`, `"frequency":0.5`, `"familiarity":0`, `"created_at":"2024-05-01T08:00:00Z"`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON %s missing %s", got, want)
		}
	}
	if c.Key() != "7" {
		t.Errorf("Key() = %q, want 7", c.Key())
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v, want %d, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
