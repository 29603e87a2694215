package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/ghQQ/capmeter/pkg/period"
)

// DumpRawMeasurements outputs all measurements with raw tick counts before
// any unit conversion rounding is hidden.
func DumpRawMeasurements(w io.Writer, ms []period.Measurement) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Raw Measurement Dump"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 85)))
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		debugHeader.Render("SOURCE         "),
		debugHeader.Render("TICKS       "),
		debugHeader.Render("PERIOD US   "),
		debugHeader.Render("OVERFLOWS "),
		debugHeader.Render("STATUS  "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 85)))

	for _, m := range ms {
		fmt.Fprintf(w, "  %-16s %-12d %-12d %-10d %s\n",
			m.Source, m.ElapsedTick, m.PeriodUS, m.Overflows, dimIfOK(m))
	}
}

func dimIfOK(m period.Measurement) string {
	if m.Status == period.StatusOK {
		return debugDim.Render(string(m.Status))
	}
	return string(m.Status)
}
