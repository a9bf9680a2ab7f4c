package corpus

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// zipfTheta is the skew of synthetic corpora.
// Natural language word frequencies are close to 1.
const zipfTheta = 0.99

// Zipf generates a corpus of n tokens drawn from a vocabulary of the given size.
// Token frequencies follow a Zipf distribution; the same seed always produces the same corpus.
//
// Zipf panics if n or vocabulary is not positive.
func Zipf(n, vocabulary int, seed uint64) *Corpus {
	if n <= 0 || vocabulary <= 0 {
		panic(fmt.Sprintf("corpus: invalid synthetic corpus of %d tokens with vocabulary %d", n, vocabulary))
	}

	// pre-generate the vocabulary, so that equal words share their backing data
	words := make([]string, vocabulary)
	for rank := range words {
		words[rank] = word(rank)
	}

	rng := rand.New(rand.NewPCG(seed, seed+1))

	spread := vocabulary + 1
	zeta2 := zeta(2, zipfTheta)
	zetaN := zeta(spread, zipfTheta)
	alpha := 1.0 / (1.0 - zipfTheta)
	eta := (1 - math.Pow(2.0/float64(spread), 1.0-zipfTheta)) / (1.0 - zeta2/zetaN)
	halfPowTheta := 1.0 + math.Pow(0.5, zipfTheta)

	tokens := make([]string, n)
	for i := range tokens {
		u := rng.Float64()
		uz := u * zetaN

		var rank int
		switch {
		case uz < 1.0:
			rank = 0
		case uz < halfPowTheta:
			rank = 1
		default:
			rank = int(float64(spread) * math.Pow(eta*u-eta+1.0, alpha))
		}
		if rank >= vocabulary {
			rank = vocabulary - 1
		}
		tokens[i] = words[rank]
	}

	return &Corpus{tokens: tokens}
}

// zeta computes the sum of 1/i^theta for i = 1 ... n.
func zeta(n int, theta float64) (sum float64) {
	for i := 1; i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}

// word returns the lowercase word with the given rank: a, b, ..., z, aa, ab, ...
func word(rank int) string {
	var buffer [16]byte

	i := len(buffer)
	for {
		i--
		buffer[i] = byte('a' + rank%26)
		rank = rank/26 - 1
		if rank < 0 {
			break
		}
	}
	return string(buffer[i:])
}
