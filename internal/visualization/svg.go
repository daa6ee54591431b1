// Package visualization renders grown networks as SVG and serves them
// over HTTP for interactive inspection.
package visualization

import (
	"fmt"
	"strings"

	"github.com/mucar/barw/internal/sim"
)

// genColors is cycled over branching generations so that each wave of
// daughters is visually distinct from its ancestors.
var genColors = []string{
	"#1f77b4", // blue
	"#ff7f0e", // orange
	"#2ca02c", // green
	"#d62728", // red
	"#9467bd", // purple
	"#8c564b", // brown
	"#e377c2", // pink
	"#17becf", // cyan
}

const (
	svgSize   = 800.0
	svgMargin = 20.0
)

// RenderSVG draws every recorded point of a run as a dot colored by its
// generation, fitted to a square canvas.
func RenderSVG(res sim.Result) []byte {
	if len(res.Coordinates) == 0 {
		return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f"/>`+"\n", svgSize, svgSize))
	}

	minX, minY := res.Coordinates[0].Pos.X, res.Coordinates[0].Pos.Y
	maxX, maxY := minX, minY
	for _, pt := range res.Coordinates {
		minX = min(minX, pt.Pos.X)
		maxX = max(maxX, pt.Pos.X)
		minY = min(minY, pt.Pos.Y)
		maxY = max(maxY, pt.Pos.Y)
	}

	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	scale := (svgSize - 2*svgMargin) / span
	// SVG y grows downward; flip so the reference direction points up.
	tx := func(x float64) float64 { return svgMargin + (x-minX)*scale }
	ty := func(y float64) float64 { return svgSize - svgMargin - (y-minY)*scale }

	radius := max(1.0, scale*0.4)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		svgSize, svgSize, svgSize, svgSize)
	b.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	for _, pt := range res.Coordinates {
		color := genColors[pt.Gen%len(genColors)]
		fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"><title>branch %d gen %d step %d</title></circle>`+"\n",
			tx(pt.Pos.X), ty(pt.Pos.Y), radius, color, pt.Branch, pt.Gen, pt.Step)
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}
