package gree

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Controller models one Gree remote. Each mode keeps its own State; the
// per-mode accessors address the state of the current mode.
//
// A Controller does no locking. Callers sharing one between goroutines must
// serialize writes themselves.
type Controller struct {
	power  bool
	mode   Mode
	states [numModes]State
	// Addressed when mode is outside the known modes so accessors never fail
	other State
}

// NewController builds a controller from up to five states indexed by mode.
// Nil or missing entries get the factory defaults. The states are copied.
func NewController(states []*State) *Controller {
	c := &Controller{other: DefaultState(ModeAuto)}
	for i := range c.states {
		if i < len(states) && states[i] != nil {
			c.states[i] = *states[i]
		} else {
			c.states[i] = DefaultState(Mode(i))
		}
	}
	return c
}

func (c *Controller) state() *State {
	if int(c.mode) < numModes {
		return &c.states[c.mode]
	}
	return &c.other
}

// State returns a copy of the settings stored for m
func (c *Controller) State(m Mode) State {
	if int(m) < numModes {
		return c.states[m]
	}
	return c.other
}

// Power is the mode-independent on/off state
func (c *Controller) Power() bool { return c.power }

func (c *Controller) SetPower(on bool) { c.power = on }

// Mode is the mode the per-mode accessors address
func (c *Controller) Mode() Mode { return c.mode }

// SetMode changes the current mode. Stored states are left untouched.
func (c *Controller) SetMode(m Mode) { c.mode = m }

func (c *Controller) FanSpeed() FanSpeed { return c.state().FanSpeed }

func (c *Controller) SetFanSpeed(f FanSpeed) { c.state().FanSpeed = f }

func (c *Controller) Louver() Louver { return c.state().Louver }

func (c *Controller) SetLouver(l Louver) { c.state().Louver = l }

// Temperature is the set point in degrees celsius
func (c *Controller) Temperature() uint { return c.state().Temperature }

// SetTemperature stores t as is. Values outside 16-30 are not rejected and
// encode to garbage.
func (c *Controller) SetTemperature(t uint) { c.state().Temperature = t }

func (c *Controller) Turbo() bool { return c.state().Turbo }

func (c *Controller) SetTurbo(on bool) { c.state().Turbo = on }

func (c *Controller) Display() bool { return c.state().Display }

func (c *Controller) SetDisplay(on bool) { c.state().Display = on }

func (c *Controller) XFan() bool { return c.state().XFan }

func (c *Controller) SetXFan(on bool) { c.state().XFan = on }

func (c *Controller) DisplayMode() DisplayMode { return c.state().DisplayMode }

func (c *Controller) SetDisplayMode(d DisplayMode) { c.state().DisplayMode = d }

// Health reads the health (ionizer) setting of the current mode
func (c *Controller) Health() bool { return c.state().Health }

// SetHealth writes the health setting into every mode, not just the current
// one. The physical remote treats it as a global toggle.
func (c *Controller) SetHealth(on bool) {
	log.WithField("health", on).Trace("setting health for all modes")
	for i := range c.states {
		c.states[i].Health = on
	}
	c.other.Health = on
}

type controllerJSON struct {
	Power  bool           `json:"power"`
	Mode   Mode           `json:"mode"`
	States map[Mode]State `json:"states"`
	Frame  *Frame         `json:"frame,omitempty"`
}

// MarshalJSON dumps the controller with its states keyed by mode name and the
// frame it currently encodes to. While the mode is outside the known modes
// the overflow state is written under that mode's Mode(N) key.
func (c *Controller) MarshalJSON() ([]byte, error) {
	out := controllerJSON{
		Power:  c.power,
		Mode:   c.mode,
		States: make(map[Mode]State, numModes+1),
	}
	for i, s := range c.states {
		out.States[Mode(i)] = s
	}
	if int(c.mode) >= numModes {
		out.States[c.mode] = c.other
	}
	f := c.Bits()
	out.Frame = &f

	j, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("Controller MarshalJSON error: %w", err)
	}
	return j, nil
}

// UnmarshalJSON restores power, mode and states. Modes missing from the input
// get the factory defaults.
func (c *Controller) UnmarshalJSON(data []byte) error {
	var in controllerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("Controller UnmarshalJSON error: %w", err)
	}
	states := make([]*State, numModes)
	for m, s := range in.States {
		if int(m) >= numModes {
			continue
		}
		s := s
		states[m] = &s
	}
	*c = *NewController(states)
	c.power = in.Power
	c.mode = in.Mode
	if s, ok := in.States[in.Mode]; ok && int(in.Mode) >= numModes {
		c.other = s
	}
	return nil
}
