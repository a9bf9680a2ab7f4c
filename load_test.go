package wordcount_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/wordcount"
)

func TestFindCorpus(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write := func(path string) string {
		t.Helper()

		path = filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("some words"), 0666); err != nil {
			t.Fatal(err)
		}
		return path
	}

	single := write(filepath.Join("single", "war_and_peace.txt"))
	write(filepath.Join("single", "README.md"))
	write(filepath.Join("double", "a.txt"))
	write(filepath.Join("double", "b.txt"))
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0777); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		argv    []string
		want    string
		wantErr error
	}{
		{"file", []string{single}, single, nil},
		{"directory", []string{filepath.Join(root, "single")}, single, nil},
		{"ambiguous directory", []string{filepath.Join(root, "double")}, "", wordcount.ErrNoCorpus},
		{"empty directory", []string{filepath.Join(root, "empty")}, "", wordcount.ErrNoCorpus},
		{"missing", []string{filepath.Join(root, "missing.txt")}, "", os.ErrNotExist},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := wordcount.FindCorpus(tt.argv...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FindCorpus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FindCorpus() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := wordcount.FindCorpus(); err == nil {
		t.Error("FindCorpus() without arguments succeeded")
	}
	if _, err := wordcount.FindCorpus(single, single); err == nil {
		t.Error("FindCorpus() with two arguments succeeded")
	}
}
