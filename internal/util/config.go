package util

// Config holds runtime settings and flags.
type Config struct {
	APIBase string // backend base URL
	Theme   string // palette name
	LogPath string
	Version string
}
