package main

import (
	"github.com/johnelliott/greectl/pkg/gree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greectl_transmissions_total",
		Help: "Encoded commands handed to the sink, by mode.",
	}, []string{"mode"})

	dropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "greectl_transmissions_dropped_total",
		Help: "Encoded commands dropped because the sink queue was full.",
	})

	sinkErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "greectl_sink_errors_total",
		Help: "Failed writes to the sink.",
	})

	targetTemperature = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "greectl_target_temperature",
		Help: "Set point of the current mode in degrees celsius.",
	})

	powerOn = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "greectl_power",
		Help: "1 if the unit was last told to run, labelled by mode.",
	}, []string{"mode"})
)

func observe(m gree.Mode, power bool, temp uint) {
	targetTemperature.Set(float64(temp))
	powerOn.Reset()
	if power {
		powerOn.WithLabelValues(m.String()).Set(1)
	} else {
		powerOn.WithLabelValues(m.String()).Set(0)
	}
}
