// Package config owns the device settings: where the overlay box sits within
// the video signal, the sync polarity and the display shape. It also runs
// the button-driven configuration menu and persists settings to a flash
// page.
//
// Everything here runs on the main loop; the core consumes the timing
// configuration through its own frame-boundary handoff.
package config

import (
	"io"

	"github.com/penfold42/FF-OSD/osd"
)

// Factory defaults.
var Defaults = Settings{
	Timing: osd.Timing{HOff: 42, VOff: 30, Polarity: false},
	Rows:   2,
}

// Settings is the persisted part of the configuration.
type Settings struct {
	Timing osd.Timing

	// Rows shapes the content display at power up and again whenever the
	// menu saves; the snoop protocols may resize it in between.
	Rows int
}

type Config struct {
	Settings

	// Normal is the content display owned by the LCD snoop subsystem.
	Normal *osd.Display

	// Log receives save failures, best effort. May be nil.
	Log io.Writer

	flash Flash
	menu  osd.Display
	itm   int
	open  bool
}

func New(flash Flash) *Config {
	c := &Config{
		Settings: Defaults,
		Normal:   &osd.Display{},
		flash:    flash,
	}
	return c
}

// ConfigActive reports whether the configuration menu is open.
func (c *Config) ConfigActive() bool { return c.open }

// ConfigDisplay returns the menu display.
func (c *Config) ConfigDisplay() *osd.Display { return &c.menu }

// NormalDisplay returns the mirrored content display.
func (c *Config) NormalDisplay() *osd.Display { return c.Normal }

// Timing returns the current timing configuration.
func (c *Config) Timing() osd.Timing { return c.Settings.Timing }
