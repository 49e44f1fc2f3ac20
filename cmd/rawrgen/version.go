package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the module version for `go install pkg@version` builds.
// Other builds report "devel-<VERSION>", suffixed with the short VCS
// revision when the binary was built from a checkout.
func Version() string {
	base := strings.TrimSpace(embeddedVersion)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	v := "devel-" + base
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return v + "+" + s.Value[:7]
		}
	}
	return v
}
