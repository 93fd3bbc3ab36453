package version

import (
	"runtime/debug"
	"strings"
)

// Set at build time with:
// go build -ldflags "-X github.com/vsariola/enginesound/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with a -dirty
// suffix for modified trees. Empty if unknown.
var Hash = vcsHash()

func vcsHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}

// String formats the version line printed by -v.
func String(program string) string {
	var b strings.Builder
	b.WriteString(program)
	switch {
	case Version != "":
		b.WriteString(" " + Version)
	case Hash != "":
		b.WriteString(" " + Hash)
	default:
		b.WriteString(" (devel)")
	}
	return b.String()
}
