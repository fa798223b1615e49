package gree

// State contains the settings the remote remembers separately for each mode
type State struct {
	FanSpeed    FanSpeed    `json:"fan" toml:"fan"`
	Louver      Louver      `json:"louver" toml:"louver"`
	Temperature uint        `json:"temp" toml:"temp"` // Degrees celsius, 16-30
	Turbo       bool        `json:"turbo" toml:"turbo"`
	Display     bool        `json:"display" toml:"display"` // Indoor unit display light
	Health      bool        `json:"health" toml:"health"`   // Ionizer
	XFan        bool        `json:"xfan" toml:"xfan"`       // Keep the fan running to dry the coil after cool/dry
	DisplayMode DisplayMode `json:"display_mode" toml:"display_mode"`
}

// Factory defaults the remote starts with, one per mode
var defaultStates = [numModes]State{
	ModeAuto: {
		FanSpeed:    FanAuto,
		Louver:      LouverOff,
		Temperature: 25,
		Turbo:       false,
		Display:     true,
		Health:      true,
		XFan:        false,
		DisplayMode: DisplayOff,
	},
	ModeCool: {
		FanSpeed:    FanAuto,
		Louver:      LouverOff,
		Temperature: 25,
		Turbo:       false,
		Display:     true,
		Health:      true,
		XFan:        false,
		DisplayMode: DisplayOff,
	},
	ModeDry: {
		FanSpeed:    FanLow,
		Louver:      LouverOff,
		Temperature: 25,
		Turbo:       false,
		Display:     true,
		Health:      true,
		XFan:        false,
		DisplayMode: DisplayOff,
	},
	ModeFan: {
		FanSpeed:    FanAuto,
		Louver:      LouverOff,
		Temperature: 25,
		Turbo:       false,
		Display:     true,
		Health:      true,
		XFan:        false,
		DisplayMode: DisplayOff,
	},
	ModeHeat: {
		FanSpeed:    FanAuto,
		Louver:      LouverOff,
		Temperature: 28,
		Turbo:       false,
		Display:     true,
		Health:      true,
		XFan:        false,
		DisplayMode: DisplayOff,
	},
}

// DefaultState returns the factory settings for a mode. Unknown modes get the
// auto defaults.
func DefaultState(m Mode) State {
	if int(m) < numModes {
		return defaultStates[m]
	}
	return defaultStates[ModeAuto]
}
