package version

// Version is the current version of the scanner.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/sentinel-quant/sentinel/internal/version.Version=1.2.3"
// The default value indicates a development build.
var Version = "dev"

// GetVersion returns the current version of the scanner.
func GetVersion() string {
	return Version
}
