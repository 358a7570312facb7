package env

import (
	"runtime/debug"
)

// GetBuildVersion returns the version stamped at link time with
// -ldflags "-X wipeit/internal/env.BuildVersion=... -X wipeit/internal/env.Commit=...",
// falling back to the module build info for `go install` builds.
func GetBuildVersion() (versionInfo VersionInfo, err error) {
	if BuildVersion == "" {
		BuildVersion = "dev"
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				BuildVersion = info.Main.Version
			}
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" && Commit == "" {
					Commit = setting.Value
				}
			}
		}
	}
	if Commit == "" {
		Commit = "unknown"
	}

	versionInfo.BuildVersion = BuildVersion
	versionInfo.Commit = Commit
	return
}
