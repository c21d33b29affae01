// Package dictionary holds the word list that suggestions and searches are
// drawn from.
//
// A [Dictionary] is immutable once built and safe for concurrent use.
// [Default] returns the embedded HSK 1 list; [Load] and [LoadFile] read
// CSV or XLSX word lists with a Chinese/Pinyin/English header (see
// [ReadRows] for accepted column names).
package dictionary

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

//go:embed hsk1.csv
var hsk1CSV string

// Dictionary is an ordered, de-duplicated word list.
type Dictionary struct {
	words  []hanzi.Word
	index  map[string]int
	folded []entryKeys
}

type entryKeys struct {
	pinyin     string
	definition string
}

// New builds a dictionary from words. Entries with an empty character are
// dropped; when a character repeats, the first entry wins.
func New(words []hanzi.Word) *Dictionary {
	d := &Dictionary{
		words: make([]hanzi.Word, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for _, w := range words {
		w = w.Normalize()
		if w.Character == "" {
			continue
		}
		if _, dup := d.index[w.Character]; dup {
			continue
		}
		d.index[w.Character] = len(d.words)
		d.words = append(d.words, w)
		d.folded = append(d.folded, entryKeys{
			pinyin:     FoldPinyin(w.Pinyin),
			definition: strings.ToLower(w.Definition),
		})
	}
	return d
}

var defaultDict = sync.OnceValue(func() *Dictionary {
	d, err := Load(strings.NewReader(hsk1CSV))
	if err != nil {
		panic("dictionary: embedded HSK 1 list: " + err.Error())
	}
	return d
})

// Default returns the embedded HSK 1 word list.
func Default() *Dictionary { return defaultDict() }

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// Words returns a copy of the word list in load order.
func (d *Dictionary) Words() []hanzi.Word {
	out := make([]hanzi.Word, len(d.words))
	copy(out, d.words)
	return out
}

// Lookup returns the entry for an exact character.
func (d *Dictionary) Lookup(ch string) (hanzi.Word, bool) {
	i, ok := d.index[strings.TrimSpace(ch)]
	if !ok {
		return hanzi.Word{}, false
	}
	return d.words[i], true
}
