package version

// Version is the application version, set at build time via ldflags.
// Example: go build -ldflags "-X github.com/readingdiary/diary/pkg/version.Version=1.0.0".
var Version = "dev"

// UserAgent identifies the diary to remote services.
func UserAgent() string {
	return "reading-diary/" + Version
}
