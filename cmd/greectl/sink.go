package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Format is how timings are written to the sink
type Format string

const (
	// FormatRaw is one line of space separated ticks per command
	FormatRaw Format = "raw"
	// FormatMode2 is lirc mode2 style: one "pulse N" or "space N" per line,
	// blank line after each command
	FormatMode2 Format = "mode2"
)

// ParseFormat checks a sink format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatRaw, FormatMode2:
		return f, nil
	}
	return "", fmt.Errorf("unknown sink format %q", s)
}

// FormatTimings renders one command
func FormatTimings(f Format, t []uint32) string {
	var sb strings.Builder
	switch f {
	case FormatMode2:
		for i, v := range t {
			if i%2 == 0 {
				sb.WriteString("pulse ")
			} else {
				sb.WriteString("space ")
			}
			sb.WriteString(strconv.FormatUint(uint64(v), 10))
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	default:
		for i, v := range t {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatUint(uint64(v), 10))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// OpenSink opens path for appending. "-" is stdout. A FIFO works too, opening
// blocks until a reader shows up.
func OpenSink(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("OpenSink: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Sink writes every queued transmission to w until ctx is canceled. Each
// command goes out in a single Write. The caller adds to wg.
func Sink(ctx context.Context, wg *sync.WaitGroup, remote *Remote, w io.Writer, f Format) {
	defer func() {
		log.Trace("Sink calling done on main wait group")
		wg.Done()
	}()
	log.Trace("Sink starting")

	for {
		select {
		case <-ctx.Done():
			log.Trace("Cancel: sink loop", ctx.Err())
			return
		case t := <-remote.Transmissions():
			log.WithFields(log.Fields{
				"mode":  t.Mode,
				"frame": fmt.Sprintf("%#08x %#08x", t.Frame[0], t.Frame[1]),
			}).Debug("Writing timings")
			if _, err := io.WriteString(w, FormatTimings(f, t.Timings)); err != nil {
				sinkErrors.Inc()
				log.Error("Sink write failed: ", err)
			}
		}
	}
}
