package dictionary

import (
	"math/rand/v2"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

// ErrExhausted is returned by Suggest when every word is already known.
var ErrExhausted = errors.New(errors.ErrCodeExhausted, "No new words to suggest!")

// Suggest picks a word uniformly at random among those known reports
// false for. A nil known treats every word as unknown; a nil rng uses the
// global source.
func (d *Dictionary) Suggest(known func(character string) bool, rng *rand.Rand) (hanzi.Word, error) {
	candidates := d.Unknown(known)
	if len(candidates) == 0 {
		return hanzi.Word{}, ErrExhausted
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	return candidates[i], nil
}

// Unknown lists the words known reports false for, in dictionary order.
func (d *Dictionary) Unknown(known func(character string) bool) []hanzi.Word {
	out := make([]hanzi.Word, 0, len(d.words))
	for _, w := range d.words {
		if known == nil || !known(w.Character) {
			out = append(out, w)
		}
	}
	return out
}
