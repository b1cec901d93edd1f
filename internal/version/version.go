package version

// Version information set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns a formatted version string for the named tool
func FullVersion(tool string) string {
	if Version == "dev" {
		return tool + " development build"
	}
	return tool + " " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
