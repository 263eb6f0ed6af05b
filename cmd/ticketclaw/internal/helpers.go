package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
)

const Logo = "🎫"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// GetConfigPath returns $TICKETCLAW_CONFIG, or ~/.ticketclaw/config.json.
func GetConfigPath() string {
	if p := os.Getenv("TICKETCLAW_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ticketclaw", "config.json")
}

// LoadConfig loads path, or the default location when path is empty, and
// initializes logging from the result. debug forces DEBUG level.
func LoadConfig(path string, debug bool) (*config.Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if debug {
		level = logger.DEBUG
	}
	logger.Init(os.Stderr, level, cfg.Log.Format)
	return cfg, nil
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
