package histogram

import (
	"fmt"
	"html"
	"io"
)

// SVGOptions configures the histogram SVG output.
type SVGOptions struct {
	Title       string
	Width       int
	Height      int
	ColorScheme string // "hot", "cold"
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Title:       "Period Distribution",
		Width:       1200,
		Height:      400,
		ColorScheme: "hot",
	}
}

// GenerateSVG renders the histogram as an SVG bar chart.
func GenerateSVG(h *Histogram, svg io.Writer, opts SVGOptions) error {
	if opts.Width == 0 {
		opts.Width = 1200
	}
	if opts.Height == 0 {
		opts.Height = 400
	}
	if h.Total == 0 {
		return fmt.Errorf("no samples to plot")
	}

	peak := h.Peak().Count
	if peak == 0 {
		return fmt.Errorf("no samples to plot")
	}

	fontSize := 12
	headerHeight := 40
	axisHeight := 30
	margin := 10
	chartWidth := opts.Width - 2*margin
	chartHeight := opts.Height - headerHeight - axisHeight

	fmt.Fprintf(svg, `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg1.1.dtd">
<svg version="1.1" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<style>
  .bin:hover { stroke:black; stroke-width:0.5; cursor:pointer; }
  text { font-family: monospace; font-size: %dpx; }
</style>
<rect x="0" y="0" width="%d" height="%d" fill="white"/>
<text x="%d" y="20" text-anchor="middle" style="font-size:16px; font-weight:bold;">%s</text>
<text x="%d" y="35" text-anchor="middle" style="font-size:12px; fill:#666;">%s (%d samples)</text>
`,
		opts.Width, opts.Height, fontSize,
		opts.Width, opts.Height,
		opts.Width/2, html.EscapeString(opts.Title),
		opts.Width/2, html.EscapeString(h.Source), h.Total)

	binWidth := chartWidth / len(h.Bins)
	if binWidth < 1 {
		binWidth = 1
	}
	baseY := headerHeight + chartHeight

	for i, b := range h.Bins {
		barHeight := chartHeight * b.Count / peak
		x := margin + i*binWidth
		y := baseY - barHeight

		r, g, bl := binColor(i, opts.ColorScheme)
		pct := float64(b.Count) / float64(h.Total) * 100

		fmt.Fprintf(svg, `<g class="bin">
<rect x="%d" y="%d" width="%d" height="%d" fill="rgb(%d,%d,%d)" rx="1"/>
<title>%s (%d samples, %.1f%%)</title>
</g>
`, x, y, binWidth-1, barHeight, r, g, bl, html.EscapeString(b.Label()), b.Count, pct)

		// Axis labels on every few bins to avoid overlap.
		if binWidth >= 60 || i%4 == 0 {
			fmt.Fprintf(svg, `<text x="%d" y="%d" fill="#666">%d</text>
`, x, baseY+15, b.LowUS)
		}
	}

	fmt.Fprintln(svg, "</svg>")
	return nil
}

func binColor(idx int, scheme string) (int, int, int) {
	switch scheme {
	case "cold":
		g := 50 + (idx*30)%150
		b := 150 + (idx*20)%100
		return 30, g, b
	default: // "hot"
		r := 200 + (idx*15)%55
		g := 50 + (idx*40)%150
		return r, g, 30
	}
}
