package engine

import (
	"github.com/charmbracelet/log"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel log.Level

	// Headless runs without a window against the recording null backend.
	Headless bool

	// SettingsPath points at the graphics settings TOML file. Empty disables
	// loading and hot reload; the engine then runs with defaults.
	SettingsPath string

	// TargetFrameSeconds caps the frame rate when positive.
	TargetFrameSeconds float64
	// MaxFrames stops the loop after this many frames when positive, used by
	// demo and smoke-test runs.
	MaxFrames uint64
}
