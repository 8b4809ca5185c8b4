// Package version reports the build version of fdt.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	// Set via -ldflags "-X" at release time. Empty values are filled from
	// the VCS stamp the go tool embeds.
	Version = ""
	Commit  = ""
	Date    = ""

	once sync.Once

	readBuildInfo = debug.ReadBuildInfo
)

const shortCommit = 7

func ensureInitialized() {
	once.Do(func() {
		info, ok := readBuildInfo()
		if !ok {
			info = &debug.BuildInfo{}
		}

		settings := make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}

		if Version == "" {
			Version = info.Main.Version
			if Version == "" || Version == "(devel)" {
				Version = "dev"
			}
		}
		if Commit == "" {
			Commit = settings["vcs.revision"]
			if len(Commit) > shortCommit {
				Commit = Commit[:shortCommit]
			}
			if Commit == "" {
				Commit = "unknown"
			} else if settings["vcs.modified"] == "true" {
				Commit += "-dirty"
			}
		}
		if Date == "" {
			Date = settings["vcs.time"]
			if len(Date) >= len("2006-01-02") {
				Date = Date[:len("2006-01-02")]
			}
			if Date == "" {
				Date = "unknown"
			}
		}
	})
}

// Reset clears resolved values so they are read again.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	ensureInitialized()
	return Version
}

// GetCommit returns the short commit hash.
func GetCommit() string {
	ensureInitialized()
	return Commit
}

// GetDate returns the build or commit date.
func GetDate() string {
	ensureInitialized()
	return Date
}

// Info returns a one-line description for --version.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("fdt %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
