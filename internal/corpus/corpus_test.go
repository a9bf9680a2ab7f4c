package corpus_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unsafe"

	"github.com/FAU-CDI/wordcount/internal/corpus"
)

func ExampleRead() {
	c, err := corpus.Read(strings.NewReader("a b\ta\n c  b\r\na"))
	if err != nil {
		panic(err)
	}

	fmt.Println(c.Len())
	fmt.Println(c.Distinct())
	fmt.Println(c.Counts()["a"])
	// Output: 6
	// [a b c]
	// 3
}

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{"empty", "", nil, corpus.ErrEmpty},
		{"whitespace only", " \t\n\r\n  ", nil, corpus.ErrEmpty},
		{"single", "word", []string{"word"}, nil},
		{"surrounding whitespace", "\n  hello   world \t", []string{"hello", "world"}, nil},
		{"punctuation is kept", "it's, over.", []string{"it's,", "over."}, nil},
		{"unicode", "grüße welt 世界", []string{"grüße", "welt", "世界"}, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := corpus.Read(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := c.Tokens(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() tokens = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := corpus.New(nil); !errors.Is(err, corpus.ErrEmpty) {
		t.Errorf("New(nil) error = %v, want %v", err, corpus.ErrEmpty)
	}

	tokens := []string{"a", "b", "a"}
	c, err := corpus.New(tokens)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tokens[0] = "changed"
	if got := c.Tokens()[0]; got != "a" {
		t.Errorf("New() did not copy tokens, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte("to be or not to be"), 0666); err != nil {
		t.Fatal(err)
	}

	c, err := corpus.Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := c.Len(); got != 6 {
		t.Errorf("Load() Len = %d, want 6", got)
	}
	if got := c.DistinctCount(); got != 4 {
		t.Errorf("Load() DistinctCount = %d, want 4", got)
	}

	if _, err := corpus.Load(filepath.Join(dir, "missing.txt"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want %v", err, os.ErrNotExist)
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := corpus.Load(empty, nil); !errors.Is(err, corpus.ErrEmpty) {
		t.Errorf("Load(empty) error = %v, want %v", err, corpus.ErrEmpty)
	}
}

func TestCorpus_Counts(t *testing.T) {
	t.Parallel()

	c, err := corpus.New([]string{"a", "b", "a", "c", "b", "a"})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"a": 3, "b": 2, "c": 1}
	if got := c.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %v, want %v", got, want)
	}

	// modifying the result does not affect the corpus
	c.Counts()["a"] = 100
	if got := c.Counts()["a"]; got != 3 {
		t.Errorf("Counts()[a] = %d, want 3", got)
	}
}

func TestCorpus_Detached(t *testing.T) {
	t.Parallel()

	c, err := corpus.New([]string{"alpha", "beta", "alpha"})
	if err != nil {
		t.Fatal(err)
	}

	detached := c.Detached()
	if !reflect.DeepEqual(detached, c.Tokens()) {
		t.Fatalf("Detached() = %v, want %v", detached, c.Tokens())
	}

	if unsafe.StringData(detached[0]) != unsafe.StringData(detached[2]) {
		t.Error("Detached() does not share equal tokens")
	}
	if unsafe.StringData(detached[0]) == unsafe.StringData(c.Tokens()[0]) {
		t.Error("Detached() shares data with the corpus")
	}
}

func TestCorpus_Baseline(t *testing.T) {
	t.Parallel()

	c, err := corpus.New([]string{"a", "b", "a", "c", "b", "a"})
	if err != nil {
		t.Fatal(err)
	}

	// three string headers, and one byte of data for each of them
	header := int64(unsafe.Sizeof(""))
	if got, want := c.Baseline(), 3*header+3*8; got != want {
		t.Errorf("Baseline() = %d, want %d", got, want)
	}

	large := corpus.Zipf(100_000, 10_000, 42)
	baseline := large.Baseline()
	if lower := int64(large.DistinctCount()) * header; baseline < lower {
		t.Errorf("Baseline() = %d, want at least %d", baseline, lower)
	}
	if again := large.Baseline(); again != baseline {
		t.Errorf("Baseline() not cached: got %d, then %d", baseline, again)
	}
}

func TestZipf(t *testing.T) {
	t.Parallel()

	a := corpus.Zipf(5_000, 200, 1)
	b := corpus.Zipf(5_000, 200, 1)
	if !reflect.DeepEqual(a.Tokens(), b.Tokens()) {
		t.Error("Zipf() is not deterministic")
	}

	if got := a.Len(); got != 5_000 {
		t.Errorf("Zipf() Len = %d, want 5000", got)
	}
	if got := a.DistinctCount(); got > 200 || got < 2 {
		t.Errorf("Zipf() DistinctCount = %d, want within [2, 200]", got)
	}

	// the most frequent word is the first one
	counts := a.Counts()
	for word, count := range counts {
		if count > counts["a"] {
			t.Errorf("Zipf() word %q occurs %d times, more than %q with %d", word, count, "a", counts["a"])
		}
	}
}
