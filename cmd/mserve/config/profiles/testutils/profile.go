package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/modelserve/mserve/cmd/mserve/config/profiles"
	"gopkg.in/yaml.v3"
)

// TempProfileStore writes a profile store which has only one profile into a temporary directory.
//
// The file is removed after the test.
//
// # Returns
//
// - string: filepath to the profile store.
func TempProfileStore(t *testing.T, name string, profile *profiles.Profile) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile")
	buf, err := yaml.Marshal(profiles.ProfileStore{name: profile})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
