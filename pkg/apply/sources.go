package apply

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Stdin is the input name meaning the standard input.
const Stdin = "-"

// Source is a stream of manifest documents.
type Source struct {
	// Name is the file path, or Stdin.
	Name string

	// BaseDir is the directory which relative payload paths in the source are resolved against.
	BaseDir string

	// Err is set when the input cannot be a source.
	Err error
}

func isManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

// ExpandSources converts inputs into Sources.
//
// Directories are expanded into YAML files (*.yml, *.yaml) in them, sorted by path.
// When recursive, files in subdirectories are also collected.
//
// Symbolic links to YAML files in directories are followed. Links to directories are not.
//
// Inputs which cannot be read, and directories without YAML files,
// are returned as Sources with Err.
func ExpandSources(inputs []string, recursive bool) []Source {
	sources := []Source{}
	for _, in := range inputs {
		sources = append(sources, expand(in, recursive)...)
	}
	return sources
}

func expand(input string, recursive bool) []Source {
	if input == Stdin {
		return []Source{{Name: Stdin, BaseDir: "."}}
	}

	stat, err := os.Stat(input)
	if errors.Is(err, fs.ErrNotExist) {
		return []Source{{Name: input, Err: fmt.Errorf("%w: %s", ErrFileNotFound, input)}}
	} else if err != nil {
		return []Source{{Name: input, Err: err}}
	}

	if !stat.IsDir() {
		if !isManifestFile(input) {
			return []Source{{
				Name: input,
				Err:  fmt.Errorf("%w: %s: not a YAML file (.yml, .yaml)", ErrUnsupportedFile, input),
			}}
		}
		return []Source{fileSource(input)}
	}

	paths := []string{}
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != input && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !isManifestFile(path) {
			return nil
		}
		switch {
		case d.Type().IsRegular():
			paths = append(paths, path)
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Stat(path)
			if err != nil {
				// dangling link is not a manifest.
				return nil
			}
			if target.Mode().IsRegular() {
				paths = append(paths, path)
			}
		}
		return nil
	})
	if err != nil {
		return []Source{{Name: input, Err: err}}
	}
	if len(paths) == 0 {
		return []Source{{
			Name: input,
			Err:  fmt.Errorf("%w: %s: no YAML files (.yml, .yaml) in the directory", ErrUnsupportedFile, input),
		}}
	}

	slices.Sort(paths)
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, fileSource(p))
	}
	return sources
}

func fileSource(path string) Source {
	return Source{Name: path, BaseDir: filepath.Dir(path)}
}

// open opens the source. stdin is used for Stdin.
func (s Source) open(stdin io.Reader) (io.ReadCloser, error) {
	if s.Name == Stdin {
		if stdin == nil {
			return nil, fmt.Errorf("%w: standard input is not available", ErrUnsupportedFile)
		}
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(s.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, s.Name)
	}
	return f, err
}
