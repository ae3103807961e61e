package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Settings are tool-level options, separate from the puppet profile.
type Settings struct {
	LogFile      string
	LogLevel     string
	DatabasePath string

	// Minimum milliseconds between requests to the site.
	RequestIntervalMs int

	// Prompt before founding a nation instead of skipping it.
	Interactive bool

	// Default switch positions for process runs.
	ChangeSettings bool
	ChangeFlag     bool
	MoveRegion     bool
	PlaceBids      bool
}

// LoadSettings loads tool settings from an INI file. A missing file yields
// the defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	cfg, err := ini.Load(path)
	if err != nil {
		return settings, nil
	}

	section := cfg.Section("UserSettings")

	settings.LogFile = section.Key("logFile").MustString("que.log")
	settings.LogLevel = section.Key("logLevel").MustString("INFO")
	settings.DatabasePath = section.Key("databasePath").MustString("puppets.db")
	settings.RequestIntervalMs = section.Key("requestIntervalMs").MustInt(700)
	settings.Interactive = section.Key("interactive").MustBool(false)
	settings.ChangeSettings = section.Key("changeSettings").MustBool(true)
	settings.ChangeFlag = section.Key("changeFlag").MustBool(true)
	settings.MoveRegion = section.Key("moveRegion").MustBool(true)
	settings.PlaceBids = section.Key("placeBids").MustBool(true)

	return settings, nil
}

// DefaultSettings creates settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		LogFile:           "que.log",
		LogLevel:          "INFO",
		DatabasePath:      "puppets.db",
		RequestIntervalMs: 700,
		Interactive:       false,
		ChangeSettings:    true,
		ChangeFlag:        true,
		MoveRegion:        true,
		PlaceBids:         true,
	}
}

// SaveSettings writes settings back to an INI file.
func SaveSettings(settings *Settings, path string) error {
	cfg := ini.Empty()
	section := cfg.Section("UserSettings")

	section.Key("logFile").SetValue(settings.LogFile)
	section.Key("logLevel").SetValue(settings.LogLevel)
	section.Key("databasePath").SetValue(settings.DatabasePath)
	section.Key("requestIntervalMs").SetValue(fmt.Sprintf("%d", settings.RequestIntervalMs))
	section.Key("interactive").SetValue(fmt.Sprintf("%t", settings.Interactive))
	section.Key("changeSettings").SetValue(fmt.Sprintf("%t", settings.ChangeSettings))
	section.Key("changeFlag").SetValue(fmt.Sprintf("%t", settings.ChangeFlag))
	section.Key("moveRegion").SetValue(fmt.Sprintf("%t", settings.MoveRegion))
	section.Key("placeBids").SetValue(fmt.Sprintf("%t", settings.PlaceBids))

	return cfg.SaveTo(path)
}
