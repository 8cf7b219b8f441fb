//go:build !windows

package profiles

import "os"

// createPrivateFile creates an empty file accessible only by the current user.
//
// An existing file is truncated.
func createPrivateFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_RDWR, os.FileMode(0600))
}
