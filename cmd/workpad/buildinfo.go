package main

import (
	"fmt"
	"runtime/debug"
)

type buildInfo struct {
	version   string
	goVersion string
	revision  string
	modified  bool
}

// readBuildInfo reads the module version and VCS stamp embedded by go build.
func readBuildInfo() buildInfo {
	b := buildInfo{version: "unknown", goVersion: "unknown", revision: "unknown"}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	b.version = info.Main.Version
	if b.version == "" || b.version == "(devel)" {
		b.version = "dev"
	}
	b.goVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.revision = s.Value
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}
	return b
}

func (b buildInfo) String() string {
	s := fmt.Sprintf("  Go version: %s\n  Revision:   %s", b.goVersion, b.revision)
	if b.modified {
		s += "\n  Modified:   true"
	}
	return s
}
