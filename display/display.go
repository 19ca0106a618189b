// Package display fans one (summary, verdict) pair out to a bounded registry
// of heterogeneous output sinks. Fan-out is synchronous and sequential; a
// sink that does not implement rendering returns errcode.Unsupported, which
// is logged and skipped without failing the overall update.
package display

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"plantmon-go/errcode"
	"plantmon-go/health"
	"plantmon-go/sensor"
)

// Kind selects a sink implementation.
type Kind string

const (
	KindConsole Kind = "console" // reference implementation
	KindOLED    Kind = "ssd1306" // pixel OLED class
	KindEPaper  Kind = "epaper"  // partial-refresh e-paper class
)

// DefaultCapacity bounds the sink list unless Config overrides it.
const DefaultCapacity = 4

// Descriptor configures one output sink. Immutable at configuration time.
type Descriptor struct {
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Addr    uint16 `json:"addr,omitempty"` // I2C/SPI connection parameter
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Enabled bool   `json:"enabled"`
}

// Sink renders one cycle's aggregate and verdict.
type Sink interface {
	Name() string
	Render(sum sensor.Summary, verdict health.Verdict) error
}

// Registry holds the enabled sinks in configuration order.
type Registry struct {
	sinks []Sink
	log   logrus.FieldLogger
}

// NewRegistry resolves descriptors to sink implementations. Exceeding
// capacity or naming an unknown kind is a config_error.
func NewRegistry(descs []Descriptor, capacity int, log logrus.FieldLogger) (*Registry, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(descs) > capacity {
		return nil, &errcode.E{C: errcode.ConfigError, Op: "display.NewRegistry",
			Msg: fmt.Sprintf("%d sinks exceed capacity %d", len(descs), capacity)}
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	r := &Registry{log: log}
	for _, d := range descs {
		if !d.Enabled {
			continue
		}
		switch d.Kind {
		case KindConsole:
			r.sinks = append(r.sinks, NewConsole(d.Name, os.Stdout))
		case KindOLED:
			r.sinks = append(r.sinks, &OLED{desc: d})
		case KindEPaper:
			r.sinks = append(r.sinks, &EPaper{desc: d})
		default:
			return nil, &errcode.E{C: errcode.ConfigError, Op: "display.NewRegistry",
				Msg: fmt.Sprintf("unknown display kind %q (%s)", d.Kind, d.Name)}
		}
	}
	return r, nil
}

// Add appends a pre-built sink (used by tests and board ports).
func (r *Registry) Add(s Sink) { r.sinks = append(r.sinks, s) }

func (r *Registry) logger() logrus.FieldLogger {
	if r.log != nil {
		return r.log
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// Sinks returns the resolved sink list.
func (r *Registry) Sinks() []Sink { return r.sinks }

// Update renders on every sink in order. Unsupported sinks are skipped;
// other render errors are logged and do not stop later sinks. It returns
// the number of sinks that rendered successfully.
func (r *Registry) Update(sum sensor.Summary, verdict health.Verdict) int {
	rendered := 0
	for _, s := range r.sinks {
		err := s.Render(sum, verdict)
		switch {
		case err == nil:
			rendered++
		case errcode.Is(err, errcode.Unsupported):
			r.logger().WithField("sink", s.Name()).Debug("display sink not implemented, skipped")
		default:
			r.logger().WithError(err).WithField("sink", s.Name()).Warn("display render failed")
		}
	}
	return rendered
}
