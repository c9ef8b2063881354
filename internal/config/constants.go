package config

import "time"

// Base application details
const AppName = "prose"
const ConfigDirName = "prose"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "prose.log"
const Version = "0.3.0"

// UI Layout
const StatusBarHeight = 1

// Input Behavior
const LeaderTimeout = 500 * time.Millisecond

// Status Bar
const MessageTimeout = 4 * time.Second

const DefaultScrollOff = 2
const SystemClipboard = true
const DefaultAutosaveInterval = 30 * time.Second

// Media
const DefaultUploadDir = "uploads"
const DefaultMaxUploadBytes = 20 << 20

// DefaultEmbedHosts are the video hosts whose players may be embedded.
var DefaultEmbedHosts = []string{
	"www.youtube.com",
	"youtube.com",
	"www.youtube-nocookie.com",
	"player.vimeo.com",
}
