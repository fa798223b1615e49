package gree

import (
	"fmt"
	"strings"
)

// Mode is the operating mode of the unit
type Mode uint8

// Operating modes, in protocol order
const (
	ModeAuto Mode = iota
	ModeCool
	ModeDry
	ModeFan
	ModeHeat
)

// numModes is how many modes keep their own State
const numModes = 5

var modeNames = []string{"auto", "cool", "dry", "fan", "heat"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode looks a mode up by name
func ParseMode(s string) (Mode, error) {
	i, err := lookup(modeNames, s)
	if err != nil {
		return ModeAuto, fmt.Errorf("unknown mode: %w", err)
	}
	return Mode(i), nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts a mode name, or the Mode(N) form String produces for
// selectors outside the known modes
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		var n uint8
		if _, serr := fmt.Sscanf(strings.TrimSpace(string(text)), "Mode(%d)", &n); serr != nil {
			return err
		}
		v = Mode(n)
	}
	*m = v
	return nil
}

// FanSpeed is the indoor fan setting
type FanSpeed uint8

const (
	FanAuto FanSpeed = iota
	FanLow
	FanMid
	FanHigh
)

var fanNames = []string{"auto", "low", "mid", "high"}

func (f FanSpeed) String() string {
	if int(f) < len(fanNames) {
		return fanNames[f]
	}
	return fmt.Sprintf("FanSpeed(%d)", uint8(f))
}

// ParseFanSpeed looks a fan speed up by name
func ParseFanSpeed(s string) (FanSpeed, error) {
	i, err := lookup(fanNames, s)
	if err != nil {
		return FanAuto, fmt.Errorf("unknown fan speed: %w", err)
	}
	return FanSpeed(i), nil
}

func (f FanSpeed) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FanSpeed) UnmarshalText(text []byte) error {
	v, err := ParseFanSpeed(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Louver is the swing/louver position. The values are the raw 4-bit codes
// the receiver expects, including the gaps before the 3-way positions.
type Louver uint8

const (
	LouverOff       Louver = 0x0
	LouverFull      Louver = 0x1
	LouverTop       Louver = 0x2
	LouverMidTop    Louver = 0x3
	LouverMid       Louver = 0x4
	LouverMidBottom Louver = 0x5
	LouverBottom    Louver = 0x6
	LouverBottom3   Louver = 0x7
	LouverMid3      Louver = 0x9
	LouverTop3      Louver = 0xb
)

var louverNames = map[Louver]string{
	LouverOff:       "off",
	LouverFull:      "full",
	LouverTop:       "top",
	LouverMidTop:    "midtop",
	LouverMid:       "mid",
	LouverMidBottom: "midbottom",
	LouverBottom:    "bottom",
	LouverBottom3:   "bottom3",
	LouverMid3:      "mid3",
	LouverTop3:      "top3",
}

func (l Louver) String() string {
	if n, ok := louverNames[l]; ok {
		return n
	}
	return fmt.Sprintf("Louver(%d)", uint8(l))
}

// Swing reports whether the position makes the louver sweep. These are the
// positions that set the swing flag in the first frame word.
func (l Louver) Swing() bool {
	switch l {
	case LouverFull, LouverBottom3, LouverMid3, LouverTop3:
		return true
	}
	return false
}

// ParseLouver looks a louver position up by name
func ParseLouver(s string) (Louver, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range louverNames {
		if n == name {
			return l, nil
		}
	}
	return LouverOff, fmt.Errorf("unknown louver position: %q", s)
}

func (l Louver) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Louver) UnmarshalText(text []byte) error {
	v, err := ParseLouver(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// DisplayMode selects what the indoor unit shows on its display
type DisplayMode uint8

const (
	DisplayOff DisplayMode = iota
	DisplaySetting
	DisplayIndoor
	DisplayOutdoor
)

var displayNames = []string{"off", "setting", "indoor", "outdoor"}

func (d DisplayMode) String() string {
	if int(d) < len(displayNames) {
		return displayNames[d]
	}
	return fmt.Sprintf("DisplayMode(%d)", uint8(d))
}

// ParseDisplayMode looks a display mode up by name
func ParseDisplayMode(s string) (DisplayMode, error) {
	i, err := lookup(displayNames, s)
	if err != nil {
		return DisplayOff, fmt.Errorf("unknown display mode: %w", err)
	}
	return DisplayMode(i), nil
}

func (d DisplayMode) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DisplayMode) UnmarshalText(text []byte) error {
	v, err := ParseDisplayMode(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func lookup(names []string, s string) (int, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q", s)
}
