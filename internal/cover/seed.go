package cover

import "math/rand"

// RandomSource supplies the fallback seed when an item has neither a call
// number nor a title.
type RandomSource interface {
	Int63n(n int64) int64
}

const (
	minRandomSeed = 1 << 4
	maxRandomSeed = 1 << 32
)

type globalRand struct{}

func (globalRand) Int63n(n int64) int64 { return rand.Int63n(n) }

// DeriveSeed sums the bytes of the call number, or of the title when the
// call number is empty. With both empty the seed is drawn uniformly from
// [16, 2^32].
func DeriveSeed(title, callNumber string, rnd RandomSource) int64 {
	text := callNumber
	if text == "" {
		text = title
	}
	if text != "" {
		var seed int64
		for i := 0; i < len(text); i++ {
			seed += int64(text[i])
		}
		return seed
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	return minRandomSeed + rnd.Int63n(maxRandomSeed-minRandomSeed+1)
}
