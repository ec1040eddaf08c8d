package version

// Set at build time with -ldflags "-X voice-domme/internal/version.BuildDate=...".
var (
	AppName        = "Voice Domme"
	AppDescription = "A Discord voice bot that keeps the music at the right volume."
	BuildDate      = ""
	GoVersion      = ""
)
