package apply_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/modelserve/mserve/pkg/apply"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("kind: HostSelector\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func names(sources []apply.Source) []string {
	ret := []string{}
	for _, s := range sources {
		ret = append(ret, s.Name)
	}
	return ret
}

func TestExpandSources(t *testing.T) {
	t.Run("files in a directory are sorted by name", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "b.yaml"))
		touch(t, filepath.Join(root, "a.yaml"))
		touch(t, filepath.Join(root, "c.yml"))
		touch(t, filepath.Join(root, "readme.txt"))
		touch(t, filepath.Join(root, "sub", "d.yaml"))

		actual := apply.ExpandSources([]string{root}, false)
		expected := []string{
			filepath.Join(root, "a.yaml"),
			filepath.Join(root, "b.yaml"),
			filepath.Join(root, "c.yml"),
		}
		if !slices.Equal(names(actual), expected) {
			t.Errorf("unexpected sources: (actual, expected) = (%v, %v)", names(actual), expected)
		}
		for _, s := range actual {
			if s.Err != nil {
				t.Errorf("unexpected error: %v", s.Err)
			}
			if s.BaseDir != root {
				t.Errorf("unexpected base dir: %s", s.BaseDir)
			}
		}
	})

	t.Run("recursive expansion collects files in subdirectories", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "z.yaml"))
		touch(t, filepath.Join(root, "sub", "a.yaml"))
		touch(t, filepath.Join(root, "sub", "deeper", "b.yml"))

		actual := apply.ExpandSources([]string{root}, true)
		expected := []string{
			filepath.Join(root, "sub", "a.yaml"),
			filepath.Join(root, "sub", "deeper", "b.yml"),
			filepath.Join(root, "z.yaml"),
		}
		if !slices.Equal(names(actual), expected) {
			t.Errorf("unexpected sources: (actual, expected) = (%v, %v)", names(actual), expected)
		}
		if actual[1].BaseDir != filepath.Join(root, "sub", "deeper") {
			t.Errorf("unexpected base dir: %s", actual[1].BaseDir)
		}
	})

	t.Run("inputs keep their order", func(t *testing.T) {
		root := t.TempDir()
		b := filepath.Join(root, "b.yaml")
		a := filepath.Join(root, "a.yaml")
		touch(t, a)
		touch(t, b)

		actual := apply.ExpandSources([]string{b, apply.Stdin, a}, false)
		expected := []string{b, apply.Stdin, a}
		if !slices.Equal(names(actual), expected) {
			t.Errorf("unexpected sources: (actual, expected) = (%v, %v)", names(actual), expected)
		}
	})

	t.Run("non-YAML file is unsupported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		touch(t, path)

		actual := apply.ExpandSources([]string{path}, false)
		if len(actual) != 1 || !errors.Is(actual[0].Err, apply.ErrUnsupportedFile) {
			t.Errorf("unexpected sources: %+v", actual)
		}
	})

	t.Run("missing path is not found", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.yaml")

		actual := apply.ExpandSources([]string{path}, false)
		if len(actual) != 1 {
			t.Fatalf("unexpected sources: %+v", actual)
		}
		if !errors.Is(actual[0].Err, apply.ErrFileNotFound) {
			t.Errorf("unexpected error: %v", actual[0].Err)
		}
		if !errors.Is(actual[0].Err, fs.ErrNotExist) {
			t.Errorf("ErrFileNotFound is not fs.ErrNotExist: %v", actual[0].Err)
		}
	})

	t.Run("symbolic links to YAML files are collected", func(t *testing.T) {
		root := t.TempDir()
		elsewhere := t.TempDir()
		touch(t, filepath.Join(elsewhere, "model.yaml"))
		if err := os.Symlink(filepath.Join(elsewhere, "model.yaml"), filepath.Join(root, "linked.yaml")); err != nil {
			t.Skipf("symbolic link is not available: %v", err)
		}
		if err := os.Symlink(filepath.Join(elsewhere, "missing.yaml"), filepath.Join(root, "dangling.yaml")); err != nil {
			t.Fatal(err)
		}
		touch(t, filepath.Join(root, "plain.yaml"))

		actual := apply.ExpandSources([]string{root}, false)
		expected := []string{
			filepath.Join(root, "linked.yaml"),
			filepath.Join(root, "plain.yaml"),
		}
		if !slices.Equal(names(actual), expected) {
			t.Errorf("unexpected sources: (actual, expected) = (%v, %v)", names(actual), expected)
		}
	})

	t.Run("directory without YAML files is unsupported", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "readme.txt"))

		actual := apply.ExpandSources([]string{root}, false)
		if len(actual) != 1 || actual[0].Name != root {
			t.Fatalf("unexpected sources: %+v", actual)
		}
		if !errors.Is(actual[0].Err, apply.ErrUnsupportedFile) {
			t.Errorf("unexpected error: %v", actual[0].Err)
		}
	})
}
