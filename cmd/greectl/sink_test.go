package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/johnelliott/greectl/pkg/gree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("raw")
	require.NoError(t, err)
	assert.Equal(t, FormatRaw, f)

	f, err = ParseFormat("MODE2")
	require.NoError(t, err)
	assert.Equal(t, FormatMode2, f)

	_, err = ParseFormat("pronto")
	assert.Error(t, err)
}

func TestFormatTimings(t *testing.T) {
	ticks := []uint32{8948, 4422, 632, 527}

	assert.Equal(t, "8948 4422 632 527\n", FormatTimings(FormatRaw, ticks))
	assert.Equal(t, "pulse 8948\nspace 4422\npulse 632\nspace 527\n\n", FormatTimings(FormatMode2, ticks))

	full := gree.NewController(nil).Timings()
	lines := strings.Split(strings.TrimRight(FormatTimings(FormatMode2, full), "\n"), "\n")
	assert.Len(t, lines, gree.TimingsLen)
	assert.Len(t, strings.Fields(FormatTimings(FormatRaw, full)), gree.TimingsLen)
}

// chanWriter hands every write to the test
type chanWriter struct {
	c   chan string
	err error
}

func (w *chanWriter) Write(p []byte) (int, error) {
	w.c <- string(p)
	if w.err != nil {
		return 0, w.err
	}
	return len(p), nil
}

func TestSink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRemote(gree.NewController(nil), 4)
	w := &chanWriter{c: make(chan string, 4)}
	wg := sync.WaitGroup{}
	wg.Add(1)
	go Sink(ctx, &wg, r, w, FormatRaw)

	r.SetOnMode(true, gree.ModeCool)
	select {
	case got := <-w.c:
		assert.Equal(t, FormatTimings(FormatRaw, r.Timings()), got)
	case <-time.After(5 * time.Second):
		t.Fatal("sink did not write")
	}

	cancel()
	wg.Wait()
}

func TestSinkWriteError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRemote(gree.NewController(nil), 4)
	w := &chanWriter{c: make(chan string, 4), err: errors.New("broken pipe")}
	wg := sync.WaitGroup{}
	wg.Add(1)
	go Sink(ctx, &wg, r, w, FormatMode2)

	// The loop keeps going after a failed write
	r.SetOn(true)
	r.SetTemperature(20)
	for i := 0; i < 2; i++ {
		select {
		case <-w.c:
		case <-time.After(5 * time.Second):
			t.Fatal("sink stopped after a write error")
		}
	}

	cancel()
	wg.Wait()
}
