//go:build windows

package profiles

import (
	"os"

	winacl "github.com/hectane/go-acl"
)

// createPrivateFile creates an empty file accessible only by the current user.
//
// An existing file is truncated.
func createPrivateFile(path string) (*os.File, error) {
	// ACL cannot be given on creation. Apply it, then drop what was written before.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, os.FileMode(0600))
	if err != nil {
		return nil, err
	}
	if err := winacl.Chmod(path, os.FileMode(0600)); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
