package dictionary

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 20

// FoldPinyin reduces pinyin to a tone-insensitive search key: diacritics,
// tone numbers, spaces and apostrophes are removed and letters lowercased,
// so "nǐ hǎo", "ni3 hao3" and "NiHao" all fold to "nihao".
func FoldPinyin(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsDigit(r) || r == '\'' || r == '’' || r == '-'
		})),
		runes.Map(unicode.ToLower),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Match ranks, best first.
const (
	rankExactCharacter = iota
	rankCharacterPrefix
	rankExactPinyin
	rankCharacterContains
	rankPinyinPrefix
	rankDefinitionWord
	rankPinyinContains
	rankDefinitionContains
)

// Search finds words whose character, pinyin or definition matches q.
//
// Character matching is by substring; pinyin matching ignores tones,
// spacing and case; definition matching is a case-insensitive substring.
// An exact character match always ranks first. Ties keep dictionary order.
// A limit <= 0 means DefaultSearchLimit.
func (d *Dictionary) Search(q string, limit int) []hanzi.Word {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	fq := FoldPinyin(q)
	lq := strings.ToLower(q)

	type hit struct{ idx, rank int }
	var hits []hit
	for i, w := range d.words {
		if r, ok := d.rank(i, w, q, fq, lq); ok {
			hits = append(hits, hit{i, r})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.rank, b.rank) })

	out := make([]hanzi.Word, 0, min(limit, len(hits)))
	for _, h := range hits[:min(limit, len(hits))] {
		out = append(out, d.words[h.idx])
	}
	return out
}

func (d *Dictionary) rank(i int, w hanzi.Word, q, fq, lq string) (int, bool) {
	keys := d.folded[i]
	switch {
	case w.Character == q:
		return rankExactCharacter, true
	case strings.HasPrefix(w.Character, q):
		return rankCharacterPrefix, true
	case fq != "" && keys.pinyin == fq:
		return rankExactPinyin, true
	case strings.Contains(w.Character, q):
		return rankCharacterContains, true
	case fq != "" && strings.HasPrefix(keys.pinyin, fq):
		return rankPinyinPrefix, true
	case containsWord(keys.definition, lq):
		return rankDefinitionWord, true
	case fq != "" && strings.Contains(keys.pinyin, fq):
		return rankPinyinContains, true
	case strings.Contains(keys.definition, lq):
		return rankDefinitionContains, true
	}
	return 0, false
}

func containsWord(text, word string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	return slices.Contains(fields, word)
}
