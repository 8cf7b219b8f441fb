package common

import (
	"os"
	"path/filepath"
	"strings"
)

// ProfileMarker is the name of the file telling which profile is used in the directory tree.
const ProfileMarker = ".mserveprofile"

type CommonFlags struct {
	Profile      string `flag:"profile" help:"profile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to profile store file"`
}

type commonFlagDetection struct {
	home string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// Flags detects default values of CommonFlags for the directory from.
//
// The profile is the first line of the nearest ProfileMarker file in from or its ancestors.
// If there are none, the profile is the absolute path of from.
//
// The profile store is "~/.mserve/profile".
func Flags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	if abs, err := filepath.Abs(from); err == nil {
		from = abs
	}

	profile := from
	for searchpath := from; ; {
		candidate := filepath.Join(searchpath, ProfileMarker)
		if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
			content, err := os.ReadFile(candidate)
			if err != nil {
				return CommonFlags{}, err
			}
			first, _, _ := strings.Cut(string(content), "\n")
			profile = strings.TrimSpace(first)
			break
		}

		next := filepath.Dir(searchpath)
		if next == searchpath {
			break
		}
		searchpath = next
	}

	return CommonFlags{
		Profile:      profile,
		ProfileStore: filepath.Join(home, ".mserve", "profile"),
	}, nil
}
