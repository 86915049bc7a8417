package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

func parseTimeDuration(s string, allowEmpty bool) (time.Duration, error) { // nolint:unparam
	if s = strings.TrimSpace(s); len(s) < 1 {
		if !allowEmpty {
			return 0, errors.Errorf("empty string")
		}

		return 0, nil
	} else if t, err := time.ParseDuration(s); err != nil {
		return 0, err
	} else {
		return t, nil
	}
}

func ParseURLString(s string, allowEmpty bool) (*url.URL, error) {
	if s = strings.TrimSpace(s); len(s) < 1 {
		if !allowEmpty {
			return nil, errors.Errorf("empty url string")
		}

		return nil, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid url, %q", s)
	}

	return u, nil
}

// parseVersion parses the "x.y.z" version string; the leading "v" is
// allowed.
func parseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid version, %q", s)
	}

	if len(v.Prerelease()) > 0 || len(v.Metadata()) > 0 {
		return nil, errors.Errorf("prerelease or metadata not allowed in version, %q", s)
	}

	return v, nil
}
