package version

// Version is the release of the argo binary, set at build time with
// -ldflags "-X github.com/rxtech-lab/argo-sweep/internal/version.Version=v1.2.3".
// "main" marks a development build.
var Version = "main"

// GetVersion returns the binary version.
func GetVersion() string {
	return Version
}
