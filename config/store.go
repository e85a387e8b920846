package config

import (
	"errors"

	"github.com/sigurn/crc8"
)

// Flash abstracts the settings page. Read fills p from the start of the
// page, Write replaces it.
type Flash interface {
	Read(p []byte) error
	Write(p []byte) error
}

var (
	ErrChecksum = errors.New("config: checksum mismatch")
	ErrVersion  = errors.New("config: unknown settings version")
)

const (
	blobVersion = 1
	blobLen     = 8
)

var blobCRC = crc8.MakeTable(crc8.CRC8)

// Load reads settings from flash. On any error the factory defaults stay in
// place.
func (c *Config) Load() error {
	var p [blobLen]byte
	if err := c.flash.Read(p[:]); err != nil {
		return err
	}
	if crc8.Checksum(p[:blobLen-1], blobCRC) != p[blobLen-1] {
		return ErrChecksum
	}
	if p[0] != blobVersion {
		return ErrVersion
	}

	c.Settings.Timing.HOff = int(p[1])
	c.Settings.Timing.VOff = int(p[2]) | int(p[3])<<8
	c.Settings.Timing.Polarity = p[4]&1 != 0
	c.Settings.Rows = int(p[5])
	return nil
}

// Save writes the current settings to flash.
func (c *Config) Save() error {
	var p [blobLen]byte
	p[0] = blobVersion
	p[1] = byte(c.Settings.Timing.HOff)
	p[2] = byte(c.Settings.Timing.VOff)
	p[3] = byte(c.Settings.Timing.VOff >> 8)
	if c.Settings.Timing.Polarity {
		p[4] = 1
	}
	p[5] = byte(c.Settings.Rows)
	p[blobLen-1] = crc8.Checksum(p[:blobLen-1], blobCRC)
	return c.flash.Write(p[:])
}
