// Package hanzi defines the character record shared by the dictionary,
// the repository backends, the HTTP API and the CLI.
package hanzi

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/hanzitree/pkg/errors"
)

// Word is a dictionary entry or a suggestion candidate: a character record
// that is not (yet) stored.
type Word struct {
	Character   string   `json:"character" bson:"character"`
	Pinyin      string   `json:"pinyin,omitempty" bson:"pinyin,omitempty"`
	Jyutping    string   `json:"jyutping,omitempty" bson:"jyutping,omitempty"`
	Definition  string   `json:"definition,omitempty" bson:"definition,omitempty"`
	Example     string   `json:"example,omitempty" bson:"example,omitempty"`
	StrokeOrder string   `json:"stroke_order,omitempty" bson:"stroke_order,omitempty"`
	Frequency   *float64 `json:"frequency,omitempty" bson:"frequency,omitempty"`
	Familiarity int      `json:"familiarity" bson:"familiarity"`
}

// Normalize trims surrounding whitespace from every text field.
func (w Word) Normalize() Word {
	w.Character = strings.TrimSpace(w.Character)
	w.Pinyin = strings.TrimSpace(w.Pinyin)
	w.Jyutping = strings.TrimSpace(w.Jyutping)
	w.Definition = strings.TrimSpace(w.Definition)
	w.Example = strings.TrimSpace(w.Example)
	w.StrokeOrder = strings.TrimSpace(w.StrokeOrder)
	return w
}

// Validate reports whether w can be stored.
func (w Word) Validate() error {
	if err := errors.ValidateCharacter(w.Character); err != nil {
		return err
	}
	if w.Familiarity < 0 {
		return errors.New(errors.ErrCodeInvalidCharacter, "familiarity cannot be negative: %d", w.Familiarity)
	}
	return nil
}

// Character is a stored, known character.
type Character struct {
	ID int64 `json:"id" bson:"_id"`
	Word `bson:",inline"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Key returns the ID as a string, the form used for notes and tree items.
func (c Character) Key() string { return strconv.FormatInt(c.ID, 10) }

// ParseID parses a character ID from a URL path or command-line argument.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid character id: %q", s)
	}
	return id, nil
}
