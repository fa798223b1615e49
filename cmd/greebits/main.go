package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/johnelliott/greectl/pkg/gree"
	log "github.com/sirupsen/logrus"
)

var (
	powerF       = flag.Bool("power", true, "power on")
	modeF        = flag.String("mode", "cool", "auto, cool, dry, fan or heat")
	fanF         = flag.String("fan", "low", "auto, low, mid or high")
	louverF      = flag.String("louver", "top", "off, full, top, midtop, mid, midbottom, bottom, bottom3, mid3 or top3")
	tempF        = flag.Uint("temp", 23, "set point in degrees celsius")
	turboF       = flag.Bool("turbo", false, "turbo")
	displayF     = flag.Bool("display", true, "display light")
	healthF      = flag.Bool("health", false, "health (ionizer)")
	xfanF        = flag.Bool("xfan", true, "keep the fan running after cool/dry")
	displayModeF = flag.String("displaymode", "off", "off, setting, indoor or outdoor")
	tickF        = flag.Duration("tick", 0, "also print durations using this tick, e.g. 1us")
	colorF       = flag.Bool("color", false, "highlight set bits")
)

func main() {
	flag.Parse()

	if os.Getenv("LOGLEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	ctrl, err := build()
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"power": ctrl.Power(),
		"mode":  ctrl.Mode(),
		"fan":   ctrl.FanSpeed(),
		"temp":  ctrl.Temperature(),
	}).Debug("encoding")

	color.NoColor = !*colorF
	Print(os.Stdout, ctrl, *tickF)
}

// build turns the flags into a controller holding them as the settings of the
// chosen mode, every other mode at factory defaults
func build() (*gree.Controller, error) {
	mode, err := gree.ParseMode(*modeF)
	if err != nil {
		return nil, err
	}
	fan, err := gree.ParseFanSpeed(*fanF)
	if err != nil {
		return nil, err
	}
	louver, err := gree.ParseLouver(*louverF)
	if err != nil {
		return nil, err
	}
	dm, err := gree.ParseDisplayMode(*displayModeF)
	if err != nil {
		return nil, err
	}

	states := make([]*gree.State, int(gree.ModeHeat)+1)
	states[mode] = &gree.State{
		FanSpeed:    fan,
		Louver:      louver,
		Temperature: *tempF,
		Turbo:       *turboF,
		Display:     *displayF,
		Health:      *healthF,
		XFan:        *xfanF,
		DisplayMode: dm,
	}
	ctrl := gree.NewController(states)
	ctrl.SetPower(*powerF)
	ctrl.SetMode(mode)
	return ctrl, nil
}

var one = color.New(color.FgGreen).SprintFunc()

// Bits renders n like gree.FormatBits with the set bits colored
func Bits(n uint32) string {
	var sb strings.Builder
	for _, r := range gree.FormatBits(n) {
		if r == '1' {
			sb.WriteString(one("1"))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Print writes both frame words, then the timings, then optionally durations
func Print(w io.Writer, ctrl *gree.Controller, tick time.Duration) {
	b := ctrl.Bits()
	fmt.Fprintln(w, Bits(b[0]))
	fmt.Fprintln(w, Bits(b[1]))
	fmt.Fprintln(w)

	t := ctrl.Timings()
	s := make([]string, len(t))
	for i, v := range t {
		s[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(w, strings.Join(s, " "))

	if tick > 0 {
		d := ctrl.Durations(tick)
		s = s[:0]
		for _, v := range d {
			s = append(s, v.String())
		}
		fmt.Fprintln(w, strings.Join(s, " "))
	}
}
