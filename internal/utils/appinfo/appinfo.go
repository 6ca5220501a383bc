// Package appinfo reports build information
package appinfo

import (
	"os"
	"runtime/debug"
)

// Version returns APP_VERSION, else the module or VCS version from the
// build info, else "0.0.0-unknown".
func Version() string {
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				if len(setting.Value) > 12 {
					return setting.Value[:12]
				}
				return setting.Value
			}
		}
	}

	return "0.0.0-unknown"
}
