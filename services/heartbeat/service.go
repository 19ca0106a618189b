// Package heartbeat emits a periodic liveness tick on the bus. Supervisors
// and the debug log subscribe to it to tell a stalled poll loop apart from a
// dead process.
package heartbeat

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"plantmon-go/bus"
	"plantmon-go/x/timex"
)

// TopicBeat carries the ticks; TopicInterval reconfigures the cadence at
// runtime (payload: seconds as float64).
var (
	TopicBeat     = bus.T("heartbeat")
	TopicInterval = bus.T("heartbeat/config/interval")
)

// Beat is one liveness tick.
type Beat struct {
	Seq  uint64 `json:"seq"`
	TsMs int64  `json:"ts_ms"`
}

// Service publishes heartbeats until its context is cancelled.
type Service struct {
	log logrus.FieldLogger
}

// New creates the service; a nil logger silences it.
func New(log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Service{log: log}
}

// Start launches the heartbeat loop in its own goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.loop(ctx, conn)
}

func (s *Service) loop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(TopicInterval)
	defer cfgSub.Unsubscribe()

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("heartbeat stopping")
			return
		case <-tick.C:
			seq++
			conn.Publish(conn.NewMessage(TopicBeat, Beat{Seq: seq, TsMs: timex.NowMs()}, true))
		case msg := <-cfgSub.Channel():
			secs, ok := msg.Payload.(float64)
			if !ok || secs <= 0 {
				s.log.WithField("payload", msg.Payload).Warn("bad heartbeat interval")
				continue
			}
			tick.Reset(time.Duration(secs * float64(time.Second)))
			s.log.WithField("interval_s", secs).Info("heartbeat interval changed")
		}
	}
}
