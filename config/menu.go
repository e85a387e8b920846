package config

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/penfold42/FF-OSD/osd"
)

// Menu items, in navigation order.
const (
	itmHOff = iota
	itmVOff
	itmPolarity
	itmRows
	itmSave

	itmCount
)

// Process applies one collected button snapshot. While the menu is closed a
// select press opens it; while open, left/right adjust the current item,
// select advances and the final item saves and closes.
func (c *Config) Process(b osd.Buttons) {
	if !c.open {
		if b&osd.ButtonSelect != 0 {
			c.open = true
			c.itm = 0
			c.render()
		}
		return
	}

	switch {
	case b&osd.ButtonSelect != 0:
		c.itm++
		if c.itm >= itmCount {
			c.open = false
			c.Normal.Rows = c.Settings.Rows
			if err := c.Save(); err != nil && c.Log != nil {
				fmt.Fprintf(c.Log, "config: save: %v\n", err)
			}
			return
		}
	case b&(osd.ButtonLeft|osd.ButtonRight) != 0:
		c.adjust(b&osd.ButtonRight != 0)
	}
	c.render()
}

func (c *Config) adjust(up bool) {
	step := -1
	if up {
		step = 1
	}
	t := &c.Settings.Timing
	switch c.itm {
	case itmHOff:
		t.HOff = clamp(t.HOff+step, 1, 199)
	case itmVOff:
		t.VOff = clamp(t.VOff+step, 2, 299)
	case itmPolarity:
		t.Polarity = !t.Polarity
	case itmRows:
		c.Settings.Rows = clamp(c.Settings.Rows+step, 1, osd.MaxRows)
	}
}

func (c *Config) render() {
	var val string
	switch c.itm {
	case itmHOff:
		val = fmt.Sprintf("H.Off:    %3d", c.Settings.Timing.HOff)
	case itmVOff:
		val = fmt.Sprintf("V.Off:    %3d", c.Settings.Timing.VOff)
	case itmPolarity:
		pol := "Active Low"
		if c.Settings.Timing.Polarity {
			pol = "Active High"
		}
		val = fmt.Sprintf("Polarity: %s", pol)
	case itmRows:
		val = fmt.Sprintf("Rows:     %3d", c.Settings.Rows)
	case itmSave:
		val = "Save & Exit"
	}
	c.menu.SetText("Setup:", val)
	c.menu.On = true
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
