package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
)

type Progress interface {
	// EstimatedTotalSize returns the total size of files to be archived.
	//
	// This is estimated and not compressed size.
	EstimatedTotalSize() int64

	// ProgressedSize returns the size of archived files.
	//
	// This size is updated during archiving.
	//
	// This is raw (not compressed) size.
	ProgressedSize() int64

	// Error returns error caused during archiving.
	Error() error

	// Done returns a channel which is closed when archiving is done.
	Done() <-chan struct{}
}

type progress struct {
	totalSize int64
	doneSize  atomic.Int64
	err       error
	done      chan struct{}
}

func (m *progress) EstimatedTotalSize() int64 {
	return m.totalSize
}

func (m *progress) ProgressedSize() int64 {
	return m.doneSize.Load()
}

func (m *progress) Error() error {
	return m.err
}

func (m *progress) Done() <-chan struct{} {
	return m.done
}

// GoTar archives files listed in paths into dest in background goroutine.
//
// # Args
//
// - ctx context.Context: context to be used for archiving.
//
// - base string: directory which relative paths are resolved against.
// Entry names in the archive are relative to base.
//
// - paths []string: files or directories to be archived.
// Directories are archived recursively. Paths outside of base are rejected.
//
// - dest io.Writer: where tar stream is to be written.
//
// # Returns
//
// - Progress: monitor object to watch the progress of archiving.
// Total size is estimated before GoTar returns.
func GoTar(ctx context.Context, base string, paths []string, dest io.Writer) Progress {
	prog := &progress{done: make(chan struct{})}

	absbase, err := filepath.Abs(base)
	if err != nil {
		prog.err = err
		close(prog.done)
		return prog
	}

	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absbase, p)
		}
		rel, err := filepath.Rel(absbase, p)
		if err != nil || !filepath.IsLocal(rel) {
			prog.err = fmt.Errorf("payload %s is not in %s", p, absbase)
			close(prog.done)
			return prog
		}
		roots = append(roots, p)
	}

	for _, root := range roots {
		if err := findFiles(root, func(_ string, info fs.FileInfo) error {
			if info.Mode().IsRegular() {
				prog.totalSize += info.Size()
			}
			return nil
		}); err != nil {
			prog.err = err
			close(prog.done)
			return prog
		}
	}

	go func() {
		defer close(prog.done)
		defer func() {
			switch pan := recover().(type) {
			case nil:
				// ok
			case error:
				prog.err = pan
			default:
				prog.err = fmt.Errorf("%v", pan)
			}
		}()

		tarWriter := tar.NewWriter(dest)
		writer := &reportingWriter{dest: tarWriter, prog: prog}

		for _, root := range roots {
			err := findFiles(root, func(fullpath string, fi fs.FileInfo) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				relpath, err := filepath.Rel(absbase, fullpath)
				if err != nil {
					return err
				}

				hdr, err := tar.FileInfoHeader(fi, "")
				if err != nil {
					return err
				}
				hdr.Name = filepath.ToSlash(relpath)

				if err := tarWriter.WriteHeader(hdr); err != nil {
					return err
				}

				fp, err := os.Open(fullpath)
				if err != nil {
					return err
				}
				defer fp.Close()
				_, err = io.Copy(writer, fp)
				return err
			})
			if err != nil {
				prog.err = err
				return
			}
		}
		prog.err = tarWriter.Close()
	}()

	return prog
}

// findFiles calls callback for each regular file under from (or from itself).
func findFiles(from string, callback func(string, fs.FileInfo) error) error {
	stat, err := os.Stat(from)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		if !stat.Mode().IsRegular() {
			return nil
		}
		return callback(from, stat)
	}

	return filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return callback(path, info)
	})
}

type reportingWriter struct {
	dest io.Writer
	prog *progress
}

func (w *reportingWriter) Write(p []byte) (int, error) {
	n, err := w.dest.Write(p)
	w.prog.doneSize.Add(int64(n))
	return n, err
}
