package display

import (
	"plantmon-go/errcode"
	"plantmon-go/health"
	"plantmon-go/sensor"
)

// OLED is the pixel OLED-class sink (SSD1306 and friends). The connection
// parameters are held so a board port can finish the render path; until then
// every update reports Unsupported and is skipped by the registry.
type OLED struct {
	desc Descriptor
}

func (o *OLED) Name() string {
	if o.desc.Name != "" {
		return o.desc.Name
	}
	return string(KindOLED)
}

// Addr returns the configured I2C address (0x3C typical).
func (o *OLED) Addr() uint16 { return o.desc.Addr }

func (o *OLED) Render(sensor.Summary, health.Verdict) error {
	return &errcode.E{C: errcode.Unsupported, Op: "display.ssd1306",
		Msg: "pixel render path not implemented"}
}
