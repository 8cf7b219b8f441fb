package profiles

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hectane/go-acl"
	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store is not found")
var ErrCannotCreateProfileStore = errors.New("cannot create profile store")
var ErrCannotUpdateProfileStore = errors.New("cannot update profile store")
var ErrProfileInvalid = errors.New("profile is invalid")
var ErrTokenExpired = errors.New("token in profile has been expired")

// ProfileStore is a map from profile name to Profile.
type ProfileStore map[string]*Profile

type Cert struct {
	// base64 encoded CA certificate
	CA string `yaml:"ca,omitempty"`
}

// Profile tells how to reach a model serving cluster.
type Profile struct {
	// endpoint of the cluster API
	ApiRoot string `yaml:"apiRoot"`

	Cert Cert `yaml:"cert"`

	// Token is sent as a bearer token. It is optional.
	Token string `yaml:"token,omitempty"`
}

func verifyUrl(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func verifyPEM(b64cert string) bool {
	bin, err := base64.StdEncoding.DecodeString(b64cert)
	if err != nil {
		return false
	}
	blk, _ := pem.Decode(bin)
	return blk != nil
}

// verifyToken checks expiry of a JWT token.
//
// Tokens which are not JWT are opaque, and passed as they are.
func verifyToken(token string, now time.Time) error {
	if token == "" {
		return nil
	}
	claims := new(jwt.RegisteredClaims)
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return nil
}

// Verify Profile
//
// # Return
//
// nil if it is valid. Otherwise, ErrProfileInvalid or ErrTokenExpired error.
func (p *Profile) Verify() error {
	if !verifyUrl(p.ApiRoot) {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	if p.Cert.CA != "" && !verifyPEM(p.Cert.CA) {
		return fmt.Errorf("%w: cert.ca is not PEM", ErrProfileInvalid)
	}
	return verifyToken(p.Token, time.Now())
}

// LoadProfileStore loads profile store from file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s: %w", ErrProfileStoreNotFound, filepath, err)
		}
		return nil, err
	}
	return Unmarshal(buf)
}

// Unmarshal profile store from yaml.
func Unmarshal(buf []byte) (ProfileStore, error) {
	ret := ProfileStore{}
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Save profile store to file.
//
// The file is readable and writable only by the current user.
// The previous content is kept in "<path>.backup" while writing,
// and left there if writing fails.
func (ps ProfileStore) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	writing := false

	bkpath := path + ".backup"
	bk, err := createPrivateFile(bkpath)
	if err != nil {
		return err
	}
	defer func() {
		if !writing {
			os.Remove(bkpath)
		}
	}()
	defer bk.Close()

	f, err := os.OpenFile(path, os.O_RDWR, os.FileMode(0600))
	switch {
	case err == nil:
		// files created by others may have loose permissions.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			return err
		}
	case os.IsPermission(err):
		return fmt.Errorf(
			"%w: no permission to write file at %s", ErrCannotUpdateProfileStore, path,
		)
	case os.IsNotExist(err):
		f, err = createPrivateFile(path)
		if err != nil {
			return fmt.Errorf("%w at %s: %w", ErrCannotCreateProfileStore, path, err)
		}
	default:
		return err
	}
	defer f.Close()

	if _, err := io.Copy(bk, f); err != nil {
		return err
	}

	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}

	writing = true
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Write(buf); err != nil {
		return err
	}
	writing = false
	return nil
}
