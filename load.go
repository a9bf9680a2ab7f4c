// Package wordcount benchmarks counting word frequencies with different map strategies.
package wordcount

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var errWrongArgCount = errors.New("need exactly one argument")

// ErrNoCorpus indicates that a directory does not contain exactly one corpus.
var ErrNoCorpus = errors.New("need exactly one '*.txt' file")

// FindCorpus finds the corpus file for the given arguments.
// The single argument must either be a regular file, or a directory containing exactly one '*.txt' file.
//
// FindCorpus does not guarantee that the corpus is loadable.
func FindCorpus(argv ...string) (string, error) {
	if len(argv) != 1 {
		return "", errWrongArgCount
	}

	path := argv[0]

	isDir, err := isDirectory(path)
	if err != nil {
		return "", err
	}

	if isDir {
		txts, err := filepath.Glob(filepath.Join(path, "*.txt"))
		if err != nil {
			return "", err
		}
		if len(txts) != 1 {
			return "", fmt.Errorf("%w in %q, but got %d", ErrNoCorpus, path, len(txts))
		}
		path = txts[0]
	}

	ok, err := isFile(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%q is not a regular file", path)
	}
	return path, nil
}

func isDirectory(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsDir(), nil
}

// isFile checks if path is a regular file.
func isFile(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsRegular(), nil
}
