package main

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/brutella/hc"
	"github.com/brutella/hc/accessory"
	hclog "github.com/brutella/hc/log"
	"github.com/johnelliott/greectl/pkg/gree"
	log "github.com/sirupsen/logrus"
)

// HomeKit heating/cooling state values
const (
	hkOff  = 0
	hkHeat = 1
	hkCool = 2
	hkAuto = 3
)

// Set point range the unit accepts
const (
	minTemp = 16
	maxTemp = 30
)

// HKSettings is what the HomeKit bridge needs besides the remote
type HKSettings struct {
	Pin            string
	StoragePath    string
	UpdateInterval time.Duration
}

// hkTargetState maps power and mode onto TargetHeatingCoolingState. HomeKit
// has no dry or fan, those show as auto.
func hkTargetState(power bool, m gree.Mode) int {
	if !power {
		return hkOff
	}
	switch m {
	case gree.ModeHeat:
		return hkHeat
	case gree.ModeCool:
		return hkCool
	}
	return hkAuto
}

// hkCurrentState is CurrentHeatingCoolingState, which has no auto
func hkCurrentState(power bool, m gree.Mode) int {
	if !power {
		return hkOff
	}
	if m == gree.ModeHeat {
		return hkHeat
	}
	return hkCool
}

// fromHKTargetState is the inverse of hkTargetState. ok is false for values
// HomeKit should never send.
func fromHKTargetState(v int) (power bool, m gree.Mode, ok bool) {
	switch v {
	case hkOff:
		return false, 0, true
	case hkHeat:
		return true, gree.ModeHeat, true
	case hkCool:
		return true, gree.ModeCool, true
	case hkAuto:
		return true, gree.ModeAuto, true
	}
	return false, 0, false
}

// clampTemp rounds a HomeKit set point and keeps it in range
func clampTemp(c float64) uint {
	t := math.Round(c)
	if t < minTemp {
		t = minTemp
	}
	if t > maxTemp {
		t = maxTemp
	}
	return uint(t)
}

// applyHKTargetState handles a TargetHeatingCoolingState write. Turning off
// keeps the mode so the next power on resumes it.
func applyHKTargetState(remote *Remote, v int) {
	power, m, ok := fromHKTargetState(v)
	if !ok {
		log.Warnf("Ignoring TargetHeatingCoolingState %d", v)
		return
	}
	if !power {
		remote.SetOn(false)
		return
	}
	remote.SetOnMode(true, m)
}

func newSwitch(name string) *accessory.Switch {
	return accessory.NewSwitch(accessory.Info{
		Name:         name,
		SerialNumber: "1",
		Manufacturer: "johnelliott.org",
		Model:        "Gree IR Bridge",
	})
}

// HKClient bridges the remote to HomeKit until ctx is canceled. The caller
// adds to wg.
func HKClient(ctx context.Context, wg *sync.WaitGroup, remote *Remote, settings HKSettings) {
	defer func() {
		log.Trace("HK client calling done on main wait group")
		wg.Done()
	}()
	log.Trace("HKClient start")

	hclog.Debug.SetOutput(log.StandardLogger().WriterLevel(log.TraceLevel))
	hclog.Info.SetOutput(log.StandardLogger().WriterLevel(log.DebugLevel))

	turbo := newSwitch("Turbo")
	turbo.Switch.On.OnValueRemoteUpdate(func(on bool) { remote.SetTurbo(on) })

	health := newSwitch("Health")
	health.Switch.On.OnValueRemoteUpdate(func(on bool) { remote.SetHealth(on) })

	xfan := newSwitch("X-Fan")
	xfan.Switch.On.OnValueRemoteUpdate(func(on bool) { remote.SetXFan(on) })

	display := newSwitch("AC Display")
	display.Switch.On.OnValueRemoteUpdate(func(on bool) { remote.SetDisplay(on) })

	// Thermostat
	infoThermo := accessory.Info{
		Name:         "Gree AC",
		Manufacturer: "johnelliott.org",
		Model:        "Gree IR Bridge",
	}
	s := remote.GetStatus()
	th := accessory.NewThermostat(infoThermo, float64(s.Temperature), minTemp, maxTemp, 1)
	th.Thermostat.TemperatureDisplayUnits.SetValue(0) // 0=C, 1=F

	th.Thermostat.TargetTemperature.OnValueRemoteUpdate(func(c float64) {
		t := clampTemp(c)
		log.Tracef("New TargetTemperature: %v %v", c, t)
		remote.SetTemperature(t)
	})
	th.Thermostat.TargetHeatingCoolingState.OnValueRemoteUpdate(func(v int) {
		log.Tracef("New TargetHeatingCoolingState: %v", v)
		applyHKTargetState(remote, v)
	})

	config := hc.Config{Pin: settings.Pin, StoragePath: settings.StoragePath}
	t, err := hc.NewIPTransport(config, th.Accessory, turbo.Accessory, health.Accessory, xfan.Accessory, display.Accessory)
	if err != nil {
		log.Error(err)
		return
	}

	push := func() {
		s := remote.GetStatus()
		th.Thermostat.CurrentHeatingCoolingState.SetValue(hkCurrentState(s.Power, s.Mode))
		th.Thermostat.TargetHeatingCoolingState.SetValue(hkTargetState(s.Power, s.Mode))
		// There is no sensor; the set point stands in for the reading
		th.Thermostat.CurrentTemperature.SetValue(float64(s.Temperature))
		th.Thermostat.TargetTemperature.SetValue(float64(s.Temperature))
		turbo.Switch.On.SetValue(s.Turbo)
		health.Switch.On.SetValue(s.Health)
		xfan.Switch.On.SetValue(s.XFan)
		display.Switch.On.SetValue(s.Display)
	}
	push()

	interval := settings.UpdateInterval
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Trace("HK client looping now")
		for {
			select {
			case <-ctx.Done():
				log.Trace("HKClient ctx canceled")
				<-t.Stop()
				log.Trace("HKClient stopped")
				return
			case <-ticker.C:
				push()
			}
		}
	}()

	// Blocks until Stop
	t.Start()
}
