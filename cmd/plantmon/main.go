// Command plantmon runs the plant monitor daemon on the simulated platform:
// it polls the configured sensor set on a fixed cadence, scores plant health,
// renders to the configured displays and publishes cycle records on the
// in-process bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"plantmon-go/bus"
	"plantmon-go/config"
	"plantmon-go/display"
	"plantmon-go/platform"
	"plantmon-go/sensor"
	"plantmon-go/services/heartbeat"
	"plantmon-go/services/monitor"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to JSON config (default: built-in)")
		interval   = flag.Duration("interval", 0, "poll interval override (e.g. 10s)")
		verbose    = flag.Bool("verbose", false, "debug logging")
		scan       = flag.Bool("scan", false, "scan the I2C bus and exit")
		once       = flag.Bool("once", false, "run one cycle and exit")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose || os.Getenv("PLANTMON_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("config load failed")
		}
	}

	sim := platform.NewSim()

	reg, err := sensor.New(sensor.Config{
		Descriptors: cfg.Sensors,
		Capacity:    cfg.SensorCapacity,
		I2C:         sim.I2C,
		OneWire:     sim.Probe,
		Analog:      sim.ADC,
		Sleeper:     sim.Clock,
		Resolution:  cfg.OneWireResolution,
		LightMode:   cfg.ParsedLightMode(),
		Log:         log,
	})
	if err != nil {
		log.WithError(err).Fatal("sensor registry init failed")
	}

	if *scan {
		for _, addr := range reg.ScanBus() {
			fmt.Printf("0x%02X\n", addr)
		}
		return
	}

	displays, err := display.NewRegistry(cfg.Displays, cfg.DisplayCapacity, log)
	if err != nil {
		log.WithError(err).Fatal("display registry init failed")
	}

	b := bus.New(16)
	svc := monitor.New(monitor.Config{
		Registry: reg,
		Displays: displays,
		Ranges:   cfg.Health,
		Conn:     b.NewConnection("monitor"),
		Interval: pickInterval(*interval, cfg.PollInterval()),
		Log:      log,
	})

	// Mirror published cycle records into the debug log; this is the same
	// subscription path a network or persistence service would use.
	tap := b.NewConnection("log-tap").Subscribe(monitor.TopicCycle)
	go func() {
		for msg := range tap.Channel() {
			p, ok := msg.Payload.(monitor.CyclePayload)
			if !ok {
				continue
			}
			log.WithFields(logrus.Fields{
				"cycle": p.Record.ID,
				"score": p.Verdict.Score,
			}).Debug("cycle record published")
		}
	}()

	if *once {
		p := svc.Cycle()
		log.WithField("category", p.Verdict.Category).Info("single cycle done")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	heartbeat.New(log).Start(ctx, b.NewConnection("heartbeat"))

	log.WithField("interval", pickInterval(*interval, cfg.PollInterval())).Info("plantmon starting")
	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		log.WithError(err).Error("monitor stopped")
	}
	log.Info("plantmon stopped")
}

func pickInterval(override, configured time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return configured
}
