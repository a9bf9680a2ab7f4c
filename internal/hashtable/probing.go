package hashtable

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// Probing determines the order in which slots are visited on a collision.
type Probing int

const (
	// Linear visits the next slot.
	Linear Probing = iota

	// Quadratic visits home + k(k+1)/2 in iteration k.
	// It reaches every slot only for power-of-two capacities.
	Quadratic

	// Double advances by a second, independent hash of the key.
	Double
)

func (p Probing) String() string {
	switch p {
	case Linear:
		return "linear"
	case Quadratic:
		return "quadratic"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// step returns the per-key step width for a table of n slots.
// Only Double uses it.
func (p Probing) step(key string, n uint64) uint64 {
	if p != Double {
		return 1
	}
	h2 := xxhash.Sum64String(key)
	if n&(n-1) == 0 {
		// any odd step is coprime with a power of two
		return (h2 | 1) & (n - 1)
	}
	// n is prime
	return 1 + h2%(n-1)
}

// next returns the slot to visit after index in iteration k.
func (p Probing) next(index, step, k, n uint64) uint64 {
	switch p {
	case Quadratic:
		return (index + k) & (n - 1)
	default:
		index += step
		if index >= n {
			index -= n
		}
		return index
	}
}

// Layout determines how capacities are chosen and hashes are mapped to slots.
type Layout int

const (
	// Sparse uses power-of-two capacities and masks hashes.
	// Every resize at least doubles the capacity.
	Sparse Layout = iota

	// Dense uses prime capacities and maps hashes by multiplication.
	// Capacities follow the growth factor closely.
	Dense
)

func (l Layout) String() string {
	switch l {
	case Sparse:
		return "sparse"
	case Dense:
		return "dense"
	default:
		return "unknown"
	}
}

// supports reports if this layout can be combined with the given probing.
func (l Layout) supports(p Probing) bool {
	switch l {
	case Sparse:
		return p == Linear || p == Quadratic || p == Double
	case Dense:
		return p == Linear || p == Double
	default:
		return false
	}
}

// capacity returns the smallest valid capacity of at least n slots.
func (l Layout) capacity(n int) int {
	if n < minCapacity {
		n = minCapacity
	}
	if l == Dense {
		return nextPrime(n)
	}
	return 1 << bits.Len(uint(n-1))
}

// home returns the first slot to visit for hash h in a table of n slots.
func (l Layout) home(h, n uint64) uint64 {
	if l == Dense {
		hi, _ := bits.Mul64(h, n)
		return hi
	}
	return h & (n - 1)
}

// nextPrime returns the smallest prime >= n.
func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		n += 2
	}
	return n
}

// isPrime reports if the odd number n is prime.
func isPrime(n int) bool {
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
