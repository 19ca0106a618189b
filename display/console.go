package display

import (
	"fmt"
	"io"

	"plantmon-go/health"
	"plantmon-go/sensor"
)

// Console is the reference sink: a fixed-width character box with the
// verdict symbol, a temperature/humidity line, a soil/light line, the score
// and uptime, redrawn in full every cycle (no partial update).
type Console struct {
	name string
	w    io.Writer
	// ClearScreen controls the ANSI home+clear prefix; useful to disable
	// when the writer is not a terminal.
	ClearScreen bool
}

// NewConsole creates a console sink writing to w.
func NewConsole(name string, w io.Writer) *Console {
	if name == "" {
		name = "console"
	}
	return &Console{name: name, w: w, ClearScreen: true}
}

func (c *Console) Name() string { return c.name }

const boxRule = "+-------------------------+"

// Render redraws the whole frame.
func (c *Console) Render(sum sensor.Summary, verdict health.Verdict) error {
	if c.ClearScreen {
		fmt.Fprint(c.w, "\033[2J\033[H")
	}
	up := int64(sum.Uptime.Seconds())
	fmt.Fprintln(c.w, boxRule)
	fmt.Fprintln(c.w, "|      Plant Monitor      |")
	fmt.Fprintf(c.w, "| %2s %-20s |\n", verdict.Symbol, verdict.Category)
	fmt.Fprintln(c.w, "|                         |")
	fmt.Fprintf(c.w, "| T: %-7s H: %-9s |\n", fmtOpt(sum.Temperature, "%.1fC"), fmtOpt(sum.Humidity, "%.1f%%"))
	fmt.Fprintf(c.w, "| Soil: %-5s Light: %-5s |\n", fmtOptU16(sum.SoilMoisture), fmtOptU16(sum.LightLevel))
	fmt.Fprintf(c.w, "| Lux: %-18s |\n", fmtOpt(sum.Lux, "%.1f"))
	fmt.Fprintf(c.w, "| Health: %5.1f           |\n", verdict.Score)
	fmt.Fprintf(c.w, "| Uptime: %02d:%02d:%02d        |\n", up/3600, (up%3600)/60, up%60)
	fmt.Fprintln(c.w, boxRule)
	fmt.Fprintf(c.w, "\nRecommendation: %s\n", verdict.Recommendation)
	return nil
}

// Clear wipes the frame area.
func (c *Console) Clear() {
	if c.ClearScreen {
		fmt.Fprint(c.w, "\033[2J\033[H")
	}
}

// ShowWelcome prints the start-up banner.
func (c *Console) ShowWelcome() {
	c.Clear()
	fmt.Fprintln(c.w, boxRule)
	fmt.Fprintln(c.w, "|      Plant Monitor      |")
	fmt.Fprintln(c.w, "|                         |")
	fmt.Fprintln(c.w, "|   System starting...   |")
	fmt.Fprintln(c.w, boxRule)
}

// ShowError prints a boxed error message.
func (c *Console) ShowError(msg string) {
	c.Clear()
	fmt.Fprintln(c.w, boxRule)
	fmt.Fprintln(c.w, "|          ERROR          |")
	fmt.Fprintf(c.w, "| %-23.23s |\n", msg)
	fmt.Fprintln(c.w, boxRule)
}

func fmtOpt(v *float64, format string) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf(format, *v)
}

func fmtOptU16(v *uint16) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%d", *v)
}
