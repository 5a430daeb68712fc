// Package version exposes the build version injected via ldflags.
package version

// version is overridden at build time by the magefile.
var version = "v0.0.0"

// Value returns the build version string.
func Value() string {
	return version
}
