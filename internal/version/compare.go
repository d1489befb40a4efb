package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// CheckConfigCompatibility reports whether a binary at binaryVersion can run
// a configuration written for configVersion.
//
//   - An empty configVersion or a "main" on either side skips the check.
//   - Major versions must match.
//   - The binary minor must be at least the configuration minor, since newer
//     minors only add options.
func CheckConfigCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || binaryVersion == "main" || configVersion == "main" {
		return nil
	}

	binary, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid binary version '%s'", binaryVersion)
	}

	config, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid configuration version '%s'", configVersion)
	}

	if binary.Major() != config.Major() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"major version mismatch: binary is %d.x.x but configuration targets %d.x.x",
			binary.Major(), config.Major())
	}

	if binary.Minor() < config.Minor() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"configuration targets %d.%d.x but binary is only %d.%d.x",
			config.Major(), config.Minor(), binary.Major(), binary.Minor())
	}

	return nil
}
