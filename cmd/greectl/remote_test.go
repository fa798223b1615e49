package main

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/johnelliott/greectl/pkg/gree"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(t *testing.T, r *Remote) Transmission {
	t.Helper()
	select {
	case tr := <-r.Transmissions():
		return tr
	default:
		t.Fatal("no transmission queued")
	}
	return Transmission{}
}

func TestRemoteSetters(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 4)

	require.True(t, r.SetOn(true))
	tr := next(t, r)
	assert.Equal(t, gree.ModeAuto, tr.Mode)
	assert.Equal(t, gree.Frame{0x1090060a, 0x0000000d}, tr.Frame)
	assert.Len(t, tr.Timings, gree.TimingsLen)

	require.True(t, r.SetMode(gree.ModeCool))
	tr = next(t, r)
	assert.Equal(t, gree.ModeCool, tr.Mode)
	assert.Equal(t, gree.Frame{0x9090060a, 0x00000003}, tr.Frame)

	require.True(t, r.SetFanSpeed(gree.FanHigh))
	require.True(t, r.SetTurbo(true))
	require.True(t, r.SetDisplay(false))
	require.True(t, r.SetDisplayMode(gree.DisplayOutdoor))
	for i := 0; i < 3; i++ {
		next(t, r)
	}
	tr = next(t, r)
	assert.Equal(t, gree.Frame{0x9c900a0a, 0x00c00003}, tr.Frame)
	assert.Equal(t, tr.Timings, r.Timings())

	s := r.GetStatus()
	assert.True(t, s.Power)
	assert.Equal(t, gree.ModeCool, s.Mode)
	assert.Equal(t, gree.FanHigh, s.FanSpeed)
	assert.True(t, s.Turbo)
}

func TestRemoteSkipsNoOps(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 4)

	assert.False(t, r.SetOn(false))
	assert.False(t, r.SetMode(gree.ModeAuto))
	assert.False(t, r.SetTemperature(25))
	assert.False(t, r.SetFanSpeed(gree.FanAuto))
	assert.False(t, r.SetLouver(gree.LouverOff))
	assert.False(t, r.SetHealth(true))
	assert.False(t, r.SetOnMode(false, gree.ModeAuto))
	assert.Len(t, r.sendC, 0)

	r.Transmit()
	assert.Len(t, r.sendC, 1)
}

func TestRemoteOnMode(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 4)

	require.True(t, r.SetOnMode(true, gree.ModeHeat))
	tr := next(t, r)
	assert.Equal(t, gree.Frame{0x3030060a, 0x00000004}, tr.Frame)
	assert.Len(t, r.sendC, 0)

	require.True(t, r.SetTemperature(30))
	tr = next(t, r)
	assert.Equal(t, gree.Frame{0x3070060a, 0x00000002}, tr.Frame)
}

func TestRemoteHealthBroadcast(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 4)

	require.True(t, r.SetHealth(false))
	require.True(t, r.SetMode(gree.ModeDry))
	assert.False(t, r.GetStatus().Health)
	assert.False(t, r.SetHealth(false))
}

func TestRemoteHealthMixedModes(t *testing.T) {
	cool := gree.DefaultState(gree.ModeCool)
	cool.Health = false
	r := NewRemote(gree.NewController([]*gree.State{nil, &cool}), 4)

	// Auto already has health on, cool does not
	require.True(t, r.SetHealth(true))
	next(t, r)
	require.True(t, r.SetMode(gree.ModeCool))
	assert.True(t, r.GetStatus().Health)
	assert.False(t, r.SetHealth(true))
}

func TestRemoteDropsWhenFull(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 1)
	before := testutil.ToFloat64(dropped)

	require.True(t, r.SetOn(true))
	require.True(t, r.SetTemperature(20))
	assert.Equal(t, before+1, testutil.ToFloat64(dropped))

	// The oldest command made room, the current state still goes out
	tr := next(t, r)
	assert.Equal(t, r.Timings(), tr.Timings)
	pre := gree.ReverseBits(tr.Frame[0])
	assert.Equal(t, uint32(20-16), pre>>8&0xf)
	assert.Len(t, r.sendC, 0)
}

func TestRemoteConcurrentSetters(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 2)
	r.SetOn(true)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.SetTemperature(uint(16 + i%15))
			r.SetFanSpeed(gree.FanSpeed(i % 4))
			r.SetTurbo(i%2 == 0)
		}(i)
	}
	wg.Wait()

	var last Transmission
	for len(r.sendC) > 0 {
		last = next(t, r)
	}
	assert.Equal(t, r.Timings(), last.Timings)
	assert.Equal(t, float64(r.GetStatus().Temperature), testutil.ToFloat64(targetTemperature))
}

func TestNewRemoteQueueLength(t *testing.T) {
	r := NewRemote(gree.NewController(nil), -1)
	assert.Equal(t, 1, cap(r.sendC))

	r = NewRemote(gree.NewController(nil), 0)
	assert.Equal(t, 1, cap(r.sendC))
	require.True(t, r.SetOn(true))
	require.True(t, r.SetOn(false))
	assert.Equal(t, r.Timings(), next(t, r).Timings)
}

func TestRemoteSnapshot(t *testing.T) {
	r := NewRemote(gree.NewController(nil), 1)
	r.SetOnMode(true, gree.ModeCool)

	j, err := r.Snapshot()
	require.NoError(t, err)

	var out struct {
		Power bool   `json:"power"`
		Mode  string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(j, &out))
	assert.True(t, out.Power)
	assert.Equal(t, "cool", out.Mode)
}
