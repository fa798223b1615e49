package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/johnelliott/greectl/pkg/gree"
	log "github.com/sirupsen/logrus"
)

// Transmission is one encoded command waiting for the sink
type Transmission struct {
	Mode    gree.Mode
	Frame   gree.Frame
	Timings []uint32
}

// Remote is the shared virtual remote. All access to the controller goes
// through it so HomeKit, HTTP and the sink never race.
type Remote struct {
	mu    sync.RWMutex
	ctrl  *gree.Controller
	sendC chan Transmission
}

// NewRemote wraps ctrl. Up to queueLen encoded commands can wait for the sink;
// past that the oldest waiting command is dropped. queueLen is at least 1.
func NewRemote(ctrl *gree.Controller, queueLen int) *Remote {
	if queueLen < 1 {
		log.Warnf("Queue length %d too small, using 1", queueLen)
		queueLen = 1
	}
	return &Remote{
		ctrl:  ctrl,
		sendC: make(chan Transmission, queueLen),
	}
}

// Log some basic stats to the console
func (r *Remote) Log() *log.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return log.WithFields(log.Fields{
		"power":  r.ctrl.Power(),
		"mode":   r.ctrl.Mode(),
		"fan":    r.ctrl.FanSpeed(),
		"louver": r.ctrl.Louver(),
		"temp":   r.ctrl.Temperature(),
		"turbo":  r.ctrl.Turbo(),
		"health": r.ctrl.Health(),
		"xfan":   r.ctrl.XFan(),
	})
}

// Status is what the remote would show on its screen
type Status struct {
	Power bool
	Mode  gree.Mode
	gree.State
}

// GetStatus gets the current power, mode and settings of the current mode
func (r *Remote) GetStatus() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Status{
		Power: r.ctrl.Power(),
		Mode:  r.ctrl.Mode(),
		State: r.ctrl.State(r.ctrl.Mode()),
	}
}

// Snapshot is the controller as JSON
func (r *Remote) Snapshot() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, err := json.Marshal(r.ctrl)
	if err != nil {
		return nil, fmt.Errorf("Remote snapshot error: %w", err)
	}
	return j, nil
}

// Timings is the tick sequence for the current settings
func (r *Remote) Timings() []uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ctrl.Timings()
}

// Transmissions is where encoded commands come out
func (r *Remote) Transmissions() <-chan Transmission {
	return r.sendC
}

// update applies fn under the write lock and queues a transmission if fn
// reports a change. The lock is held through the queue so commands reach the
// sink in the order their states were made.
func (r *Remote) update(what string, value interface{}, fn func(c *gree.Controller) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !fn(r.ctrl) {
		log.Tracef("%s: already %v", what, value)
		return false
	}
	t := Transmission{
		Mode:    r.ctrl.Mode(),
		Frame:   r.ctrl.Bits(),
		Timings: r.ctrl.Timings(),
	}

	log.Infof("%s: %v", what, value)
	observe(t.Mode, r.ctrl.Power(), r.ctrl.Temperature())
	r.queue(t)
	return true
}

// queue never blocks. When the sink is behind the oldest waiting command
// makes room: every frame carries the whole state, so the newest one must
// go out.
func (r *Remote) queue(t Transmission) {
	for {
		select {
		case r.sendC <- t:
			transmissions.WithLabelValues(t.Mode.String()).Inc()
			return
		default:
		}
		select {
		case old := <-r.sendC:
			dropped.Inc()
			log.Warnf("Sink is behind, dropping queued %s command", old.Mode)
		default:
		}
	}
}

// Transmit queues the current settings even if nothing changed
func (r *Remote) Transmit() {
	r.update("Transmit", "now", func(c *gree.Controller) bool { return true })
}

// SetOn sets power
func (r *Remote) SetOn(on bool) bool {
	return r.update("SetOn", on, func(c *gree.Controller) bool {
		if c.Power() == on {
			return false
		}
		c.SetPower(on)
		return true
	})
}

// SetOnMode sets power and mode as one command
func (r *Remote) SetOnMode(on bool, m gree.Mode) bool {
	return r.update("SetOnMode", fmt.Sprintf("%v %s", on, m), func(c *gree.Controller) bool {
		if c.Power() == on && c.Mode() == m {
			return false
		}
		c.SetPower(on)
		c.SetMode(m)
		return true
	})
}

// SetMode switches mode; the new mode's remembered settings apply
func (r *Remote) SetMode(m gree.Mode) bool {
	return r.update("SetMode", m, func(c *gree.Controller) bool {
		if c.Mode() == m {
			return false
		}
		c.SetMode(m)
		return true
	})
}

// SetTemperature sets the set point of the current mode
func (r *Remote) SetTemperature(t uint) bool {
	return r.update("SetTemperature", t, func(c *gree.Controller) bool {
		if c.Temperature() == t {
			return false
		}
		c.SetTemperature(t)
		return true
	})
}

// SetFanSpeed sets the fan speed of the current mode
func (r *Remote) SetFanSpeed(f gree.FanSpeed) bool {
	return r.update("SetFanSpeed", f, func(c *gree.Controller) bool {
		if c.FanSpeed() == f {
			return false
		}
		c.SetFanSpeed(f)
		return true
	})
}

// SetLouver sets the louver position of the current mode
func (r *Remote) SetLouver(l gree.Louver) bool {
	return r.update("SetLouver", l, func(c *gree.Controller) bool {
		if c.Louver() == l {
			return false
		}
		c.SetLouver(l)
		return true
	})
}

// SetTurbo sets turbo for the current mode
func (r *Remote) SetTurbo(on bool) bool {
	return r.update("SetTurbo", on, func(c *gree.Controller) bool {
		if c.Turbo() == on {
			return false
		}
		c.SetTurbo(on)
		return true
	})
}

// SetDisplay sets the display light for the current mode
func (r *Remote) SetDisplay(on bool) bool {
	return r.update("SetDisplay", on, func(c *gree.Controller) bool {
		if c.Display() == on {
			return false
		}
		c.SetDisplay(on)
		return true
	})
}

// SetHealth sets health for every mode. It is only a no-op when every mode
// already holds on.
func (r *Remote) SetHealth(on bool) bool {
	return r.update("SetHealth", on, func(c *gree.Controller) bool {
		if healthEverywhere(c, on) {
			return false
		}
		c.SetHealth(on)
		return true
	})
}

func healthEverywhere(c *gree.Controller, on bool) bool {
	for m := gree.ModeAuto; m <= gree.ModeHeat; m++ {
		if c.State(m).Health != on {
			return false
		}
	}
	return c.Health() == on
}

// SetXFan sets xfan for the current mode
func (r *Remote) SetXFan(on bool) bool {
	return r.update("SetXFan", on, func(c *gree.Controller) bool {
		if c.XFan() == on {
			return false
		}
		c.SetXFan(on)
		return true
	})
}

// SetDisplayMode sets what the display shows for the current mode
func (r *Remote) SetDisplayMode(d gree.DisplayMode) bool {
	return r.update("SetDisplayMode", d, func(c *gree.Controller) bool {
		if c.DisplayMode() == d {
			return false
		}
		c.SetDisplayMode(d)
		return true
	})
}
