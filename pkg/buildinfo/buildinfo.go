// Package buildinfo exposes the goldencheck version stamped at build time.
package buildinfo

import "runtime/debug"

// BinaryVersion is set at build time via
// -ldflags "-X github.com/fulmenhq/goldencheck/pkg/buildinfo.BinaryVersion=v1.2.3".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain, or
// "" when the binary was built from a working tree.
func ModuleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}
