// Package version holds the publisher's version string, overridable at
// build time via -ldflags.
package version

// Version is the semantic version of this build.
var Version = "0.3.0-dev"
