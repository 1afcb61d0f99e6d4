package graph

import (
	"fmt"
	"strings"
)

// Build identity, overridable at link time:
//
//	go build -ldflags "-X .../graph.buildVersion=1.2.0 -X .../graph.buildCommit=<sha>"
var (
	buildVersion = "0.7.0-SNAPSHOT"
	buildCommit  = "unknown"
)

// Version identifies the build that produced a graph. The version string
// is the primary compatibility component; the commit disambiguates
// builds of the same version.
type Version struct {
	Version string
	Commit  string
}

// CurrentVersion returns the running build's identity.
func CurrentVersion() Version {
	return Version{Version: buildVersion, Commit: buildCommit}
}

// Qualifier returns the suffix after the first dash, e.g. "SNAPSHOT".
func (v Version) Qualifier() string {
	if i := strings.IndexByte(v.Version, '-'); i >= 0 {
		return v.Version[i+1:]
	}
	return ""
}

// Unstable reports whether this is a snapshot (non-release) build.
func (v Version) Unstable() bool {
	return v.Qualifier() == "SNAPSHOT"
}

func (v Version) String() string {
	return fmt.Sprintf("%s (%s)", v.Version, v.Commit)
}
