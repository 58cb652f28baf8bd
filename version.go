package gatt

import "github.com/blang/semver"

// protocolVersion is this package's declared protocol/library
// version. It is parsed once at init so a malformed literal fails
// fast at startup rather than surfacing as a confusing zero value
// later.
const protocolVersion = "1.0.0"

var parsedVersion = semver.MustParse(protocolVersion)

// Version returns the package's semantic version, so an embedder
// can gate feature availability against it rather than comparing
// raw version strings.
func Version() semver.Version {
	return parsedVersion
}
