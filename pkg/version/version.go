// Package version exposes build-time version information.
package version

import "fmt"

var (
	// Version is set from the release tag during the build.
	Version = "dev"
	// GitCommit is set to the built commit SHA during the build.
	GitCommit = "unknown"
)

// Info is the resolved version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

// Get returns the current build's version information.
func Get() Info {
	return Info{Version: Version, GitCommit: GitCommit}
}

func (i Info) String() string {
	return fmt.Sprintf("skillet %s (%s)", i.Version, i.GitCommit)
}
