// Package randomizer produces per-render option orderings that keep a mapping
// back to each option's authored position.
package randomizer

import (
	"math/rand/v2"

	"github.com/lshigami/fieldsurvey/internal/model"
)

// Ordering is one rendering of a question's options.
type Ordering struct {
	Display   []string
	positions map[string]int
}

// Shuffle returns a uniformly random ordering of options, or the identity
// ordering when randomize is false. Every call draws from fresh randomness.
func Shuffle(options []string, randomize bool) Ordering {
	return ShuffleWith(nil, options, randomize)
}

// ShuffleWith is Shuffle with an explicit source. A nil rng uses the
// runtime-seeded global generator.
func ShuffleWith(rng *rand.Rand, options []string, randomize bool) Ordering {
	positions := make(map[string]int, len(options))
	for i, label := range options {
		if _, dup := positions[label]; !dup {
			positions[label] = i
		}
	}

	display := make([]string, len(options))
	copy(display, options)

	if randomize && len(display) > 1 {
		swap := func(i, j int) { display[i], display[j] = display[j], display[i] }
		if rng != nil {
			rng.Shuffle(len(display), swap)
		} else {
			rand.Shuffle(len(display), swap)
		}
	}

	return Ordering{Display: display, positions: positions}
}

// WithOther appends the "other" sentinel as the trailing logical option, so it
// takes original position len(options) and is shuffled with the rest.
func WithOther(options []string) []string {
	out := make([]string, 0, len(options)+1)
	out = append(out, options...)
	return append(out, model.OtherValue)
}

// OriginalPosition reports the authored index of label.
func (o Ordering) OriginalPosition(label string) (int, bool) {
	pos, ok := o.positions[label]
	return pos, ok
}

func (o Ordering) Len() int {
	return len(o.Display)
}
