package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/johnelliott/greectl/pkg/gree"
	log "github.com/sirupsen/logrus"
)

var (
	// Flags
	configF      = flag.String("config", "", "TOML config file (default greectl.toml if present)")
	timeoutF     = flag.Duration("timeout", 0, "overall program timeout, 0 runs until signaled")
	powerF       = flag.Bool("power", false, "power on at startup")
	modeF        = flag.String("mode", "auto", "startup mode: auto, cool, dry, fan, heat")
	httpF        = flag.Bool("http", true, "serve status, timings and metrics over HTTP")
	portF        = flag.String("port", "8080", "HTTP port")
	homekitF     = flag.Bool("homekit", false, "publish HomeKit accessories")
	pinF         = flag.String("pin", "80000000", "HomeKit pairing pin")
	storagePathF = flag.String("storagepath", "./var/local/homekitdb", "path for homekit pairing data")
	sinkF        = flag.String("sink", "-", "file or FIFO timings are written to, - for stdout")
	formatF      = flag.String("format", "raw", "sink format: raw or mode2")
	queueF       = flag.Int("queue", 8, "commands that may wait for the sink before dropping")
	hkIntervalF  = flag.Duration("hkinterval", time.Second, "HomeKit state refresh interval")
)

func setLogLevel() {
	LOGLEVEL := os.Getenv("LOGLEVEL")
	switch LOGLEVEL {
	case "panic":
		log.SetLevel(log.PanicLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// applyFlags copies only the flags given on the command line over cfg
func applyFlags(cfg *Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			cfg.Timeout = *timeoutF
		case "power":
			cfg.Power = *powerF
		case "mode":
			m, perr := gree.ParseMode(*modeF)
			if perr != nil {
				err = perr
				return
			}
			cfg.Mode = m
		case "http":
			cfg.HTTP.Enabled = *httpF
		case "port":
			cfg.HTTP.Port = *portF
		case "homekit":
			cfg.HomeKit.Enabled = *homekitF
		case "pin":
			cfg.HomeKit.Pin = *pinF
		case "storagepath":
			cfg.HomeKit.StoragePath = *storagePathF
		case "sink":
			cfg.Sink.Path = *sinkF
		case "format":
			cfg.Sink.Format = *formatF
		case "queue":
			cfg.Sink.Queue = *queueF
		}
	})
	return err
}

func main() {
	flag.Parse()
	setLogLevel()

	cfg, err := LoadConfig(*configF)
	if err != nil {
		log.Fatal(err)
	}
	if err := applyFlags(cfg); err != nil {
		log.Fatal(err)
	}
	// Use env to override app settings
	cfg.ApplyEnv()

	format, err := ParseFormat(cfg.Sink.Format)
	if err != nil {
		log.Fatal(err)
	}
	sink, err := OpenSink(cfg.Sink.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Close()

	log.WithFields(log.Fields{
		"timeout": cfg.Timeout,
		"sink":    cfg.Sink.Path,
		"format":  format,
		"http":    cfg.HTTP.Enabled,
		"homekit": cfg.HomeKit.Enabled,
	}).Info("Starting")

	// main context
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	// Subtask quit response channels
	wg := sync.WaitGroup{}

	remote := NewRemote(cfg.Controller(), cfg.Sink.Queue)
	remote.Log().Info("Initial state")

	// Listen for control-c subtask
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(
			sig,
			syscall.SIGTERM,
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGQUIT,
		)
		log.Trace("Listening for signals")
		select {
		case s := <-sig:
			log.Debug("Got signal:", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	wg.Add(1)
	go Sink(ctx, &wg, remote, sink, format)

	if cfg.HomeKit.Enabled {
		wg.Add(1)
		go HKClient(ctx, &wg, remote, HKSettings{
			Pin:            cfg.HomeKit.Pin,
			StoragePath:    cfg.HomeKit.StoragePath,
			UpdateInterval: *hkIntervalF,
		})
	}

	if cfg.HTTP.Enabled {
		wg.Add(1)
		go JSONClient(ctx, &wg, cfg.HTTP.Port, remote)
	}

	// Bring the unit in line with the configured state
	remote.Transmit()

	log.Trace("Main waiting...")
	<-ctx.Done()
	log.Debug("Main context canceled")

	// bail hard if this takes too long
	theFinalCountdown := 30 * time.Second
	log.Debugf("Waiting %v then exiting", theFinalCountdown)
	time.AfterFunc(theFinalCountdown, func() {
		panic("Took too long to exit\n")
	})

	log.Trace("Waiting for wait group...")
	wg.Wait()
	log.Trace("Wait group done waiting")
}
