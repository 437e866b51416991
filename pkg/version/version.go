package version

import (
	"fmt"
	"runtime"
)

// Build information, set with
//
//	-ldflags "-X github.com/zsiec/smpte/pkg/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
	OS        = runtime.GOOS
	Arch      = runtime.GOARCH
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetInfo returns the version information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        OS,
		Arch:      Arch,
	}
}

// String returns the full version string.
func (i Info) String() string {
	return fmt.Sprintf("SMPTE timecode %s (commit: %s, built: %s, go: %s, os/arch: %s/%s)",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.OS, i.Arch)
}

// Short returns a short version string.
func (i Info) Short() string {
	return fmt.Sprintf("SMPTE %s", i.Version)
}

// UserAgent returns the User-Agent sent by the bundled clients.
func (i Info) UserAgent(client string) string {
	return fmt.Sprintf("smpte-%s/%s (%s/%s)", client, i.Version, i.OS, i.Arch)
}
