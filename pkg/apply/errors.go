package apply

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrUnresolvedReference is returned when a reference resolves neither in the batch
	// nor in the cluster.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrReferenceResolution is returned when a template reference is well-formed
	// but its index is out of range.
	ErrReferenceResolution = errors.New("reference resolution failed")

	// ErrRemoteSubmission wraps failures of the cluster.
	ErrRemoteSubmission = errors.New("remote submission failed")

	// ErrTimeout is returned when a model version (or its profiling) does not reach
	// terminal state in the allowed number of polls.
	ErrTimeout = errors.New("timeout")

	// ErrApplicationApply is returned when the whole apply cannot be done,
	// like the monitoring backend is unreachable.
	ErrApplicationApply = errors.New("apply failed")

	// ErrUnsupportedFile is returned when an input file is not a YAML file.
	ErrUnsupportedFile = errors.New("unsupported file")

	// ErrFileNotFound is returned when an input path does not exist.
	ErrFileNotFound = fmt.Errorf("file not found: %w", fs.ErrNotExist)
)
