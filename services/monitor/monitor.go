// Package monitor runs the periodic measurement cycle: poll every sensor,
// score the result, fan it out to the displays and publish a cycle record on
// the bus. One cycle is strictly sequential; the cadence timer does not tick
// concurrently with an in-flight cycle.
package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"plantmon-go/bus"
	"plantmon-go/display"
	"plantmon-go/health"
	"plantmon-go/sensor"
)

// Bus topics. The cycle record is retained so late subscribers immediately
// see the most recent state.
var (
	TopicCycle   = bus.T("monitor/cycle")
	TopicReadNow = bus.T("monitor/control/read_now")
)

// CycleRecord is the published per-cycle datum.
type CycleRecord struct {
	ID            string           `json:"id"`
	Readings      []sensor.Reading `json:"readings"`
	Summary       sensor.Summary   `json:"summary"`
	ValidCount    int              `json:"valid_count"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// CyclePayload is the bus payload: the record plus its verdict.
type CyclePayload struct {
	Record  CycleRecord    `json:"record"`
	Verdict health.Verdict `json:"verdict"`
}

// Config wires the service.
type Config struct {
	Registry *sensor.Registry
	Displays *display.Registry
	Ranges   health.Ranges
	Conn     *bus.Connection
	Interval time.Duration
	Log      logrus.FieldLogger
}

// Service owns the poll loop.
type Service struct {
	reg      *sensor.Registry
	displays *display.Registry
	ranges   health.Ranges
	conn     *bus.Connection
	interval time.Duration
	log      logrus.FieldLogger
	started  time.Time
}

// New creates the service. Interval defaults to 30s.
func New(cfg Config) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Service{
		reg:      cfg.Registry,
		displays: cfg.Displays,
		ranges:   cfg.Ranges,
		conn:     cfg.Conn,
		interval: cfg.Interval,
		log:      log,
	}
}

// Run executes one immediate cycle, then cycles on the cadence timer until
// ctx is cancelled. A message on monitor/control/read_now forces an
// out-of-cadence cycle without resetting the timer.
func (s *Service) Run(ctx context.Context) error {
	s.started = time.Now()

	var readNow <-chan *bus.Message
	if s.conn != nil {
		sub := s.conn.Subscribe(TopicReadNow)
		defer sub.Unsubscribe()
		readNow = sub.Channel()
	}

	s.Cycle()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Cycle()
		case <-readNow:
			s.Cycle()
		}
	}
}

// Cycle performs one full measurement cycle and returns its payload.
func (s *Service) Cycle() CyclePayload {
	readings, valid := s.reg.PollAll()
	verdict := health.Score(readings, s.ranges)

	sum := sensor.Summarize(readings)
	sum.Uptime = time.Since(s.started)

	if s.displays != nil {
		s.displays.Update(sum, verdict)
	}

	payload := CyclePayload{
		Record: CycleRecord{
			ID:            uuid.NewString(),
			Readings:      readings,
			Summary:       sum,
			ValidCount:    valid,
			UptimeSeconds: int64(sum.Uptime.Seconds()),
		},
		Verdict: verdict,
	}

	if s.conn != nil {
		s.conn.Publish(s.conn.NewMessage(TopicCycle, payload, true))
	}

	s.log.WithFields(logrus.Fields{
		"cycle":    payload.Record.ID,
		"valid":    valid,
		"total":    len(readings),
		"score":    verdict.Score,
		"category": verdict.Category,
	}).Info("cycle complete")

	return payload
}
