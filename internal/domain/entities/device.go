package entities

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Device is a simulated preview breakpoint
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

// Devices lists the preview modes in display order
var Devices = []Device{DeviceDesktop, DeviceTablet, DeviceMobile}

// ParseDevice converts a user supplied mode name into a Device
func ParseDevice(s string) (Device, error) {
	d := Device(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown device %q (must be desktop, tablet, or mobile)", s)
	}
	return d, nil
}

// Valid reports whether d is a known preview mode
func (d Device) Valid() bool {
	switch d {
	case DeviceDesktop, DeviceTablet, DeviceMobile:
		return true
	default:
		return false
	}
}

// ContainerMaxWidth is the widest the player container may render in this mode, in pixels
func (d Device) ContainerMaxWidth() int {
	switch d {
	case DeviceTablet:
		return 768
	case DeviceMobile:
		return 375
	default:
		return 1280
	}
}

// Label returns the human readable mode name
func (d Device) Label() string {
	if !d.Valid() {
		return "Desktop"
	}
	return cases.Title(language.English).String(string(d))
}

// Point is a 2D position, in pixels or percent depending on context
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a 2D extent, in pixels or percent depending on context
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}
