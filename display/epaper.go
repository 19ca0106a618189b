package display

import (
	"plantmon-go/errcode"
	"plantmon-go/health"
	"plantmon-go/sensor"
)

// EPaper is the partial-refresh e-paper-class sink. Placeholder like OLED:
// connection parameters are carried, rendering reports Unsupported.
type EPaper struct {
	desc Descriptor
}

func (e *EPaper) Name() string {
	if e.desc.Name != "" {
		return e.desc.Name
	}
	return string(KindEPaper)
}

func (e *EPaper) Render(sensor.Summary, health.Verdict) error {
	return &errcode.E{C: errcode.Unsupported, Op: "display.epaper",
		Msg: "refresh path not implemented"}
}
