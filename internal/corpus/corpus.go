// Package corpus provides Corpus, the immutable token sequence counted by every benchmark.
package corpus

// spellchecker:words zipf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FAU-CDI/wordcount/internal/status"
	"github.com/FAU-CDI/wordcount/pkg/footprint"
	"github.com/FAU-CDI/wordcount/pkg/progress"
	"github.com/dustin/go-humanize"
	"github.com/tkw1536/pkglib/lazy"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrEmpty is returned when a corpus does not contain a single token.
var ErrEmpty = errors.New("corpus contains no tokens")

// maxTokenSize is the longest token accepted by Read.
const maxTokenSize = 1024 * 1024

// Corpus is a non-empty, immutable sequence of tokens.
//
// A Corpus is safe for concurrent use.
type Corpus struct {
	tokens []string

	counts   lazy.Lazy[map[string]int] // number of occurrences of each token
	distinct lazy.Lazy[[]string]       // distinct tokens in order of first occurrence
	baseline lazy.Lazy[int64]
}

// New creates a new corpus holding a copy of tokens.
func New(tokens []string) (*Corpus, error) {
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	return &Corpus{tokens: slices.Clone(tokens)}, nil
}

// Read reads a corpus from r.
// Tokens are maximal runs of non-whitespace characters of the utf-8 encoded input.
func Read(r io.Reader) (*Corpus, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	return &Corpus{tokens: tokens}, nil
}

// Load loads a corpus from the file at path.
// Progress is reported to st, which may be nil.
func Load(path string, st *status.Status) (c *Corpus, e error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil && e == nil {
			c, e = nil, fmt.Errorf("failed to close corpus: %w", err)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus: %w", err)
	}

	reader := &progress.Reader{
		Reader: file,
		Total:  info.Size(),
		Rewritable: progress.Rewritable{
			Writer:        st.Writer(),
			FlushInterval: progress.DefaultFlushInterval,
		},
	}
	defer reader.Close()

	corpus, err := Read(reader)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	st.Log("loaded corpus", "path", path, "tokens", corpus.Len(), "distinct", corpus.DistinctCount(), "size", humanize.Bytes(uint64(info.Size())))
	return corpus, nil
}

// Tokens returns the tokens of this corpus.
// The caller must not modify the returned slice.
func (c *Corpus) Tokens() []string {
	return c.tokens
}

// Len returns the number of tokens in this corpus.
func (c *Corpus) Len() int {
	return len(c.tokens)
}

// Distinct returns the distinct tokens of this corpus, in order of their first occurrence.
// The caller must not modify the returned slice.
func (c *Corpus) Distinct() []string {
	return c.distinct.Get(func() []string {
		distinct := make([]string, 0, len(c.tally()))
		seen := make(map[string]struct{}, cap(distinct))
		for _, token := range c.tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			distinct = append(distinct, token)
		}
		return distinct
	})
}

// DistinctCount returns the number of distinct tokens of this corpus.
func (c *Corpus) DistinctCount() int {
	return len(c.tally())
}

// Counts returns a new map from each distinct token to the number of its occurrences.
func (c *Corpus) Counts() map[string]int {
	return maps.Clone(c.tally())
}

// tally returns the number of occurrences of each token.
// The caller must not modify the returned map.
func (c *Corpus) tally() map[string]int {
	return c.counts.Get(func() map[string]int {
		counts := make(map[string]int)
		for _, token := range c.tokens {
			counts[token]++
		}
		return counts
	})
}

// Baseline returns the number of heap bytes reachable from a slice holding a private copy of every distinct token.
//
// It is computed the first time Baseline is called, and cached afterwards.
func (c *Corpus) Baseline() int64 {
	return c.baseline.Get(func() int64 {
		return footprint.Of(cloneAll(c.Distinct()))
	})
}

// Detached returns a new sequence equal to Tokens.
// Equal tokens share a single string that is not shared with this corpus or any other caller.
func (c *Corpus) Detached() []string {
	clones := make(map[string]string, c.DistinctCount())

	tokens := make([]string, len(c.tokens))
	for i, token := range c.tokens {
		clone, ok := clones[token]
		if !ok {
			clone = strings.Clone(token)
			clones[token] = clone
		}
		tokens[i] = clone
	}
	return tokens
}

// cloneAll returns a new slice holding a copy of each of the given strings.
func cloneAll(values []string) []string {
	clones := make([]string, len(values))
	for i, value := range values {
		clones[i] = strings.Clone(value)
	}
	return clones
}
