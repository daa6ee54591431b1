package visualization

import (
	"strings"
	"testing"

	"github.com/mucar/barw/internal/sim"
)

func TestRenderSVG(t *testing.T) {
	p := sim.DefaultParams()
	p.TMax = 20
	p.Seed = 4

	res, err := sim.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	svg := string(RenderSVG(res))
	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output does not start with <svg: %q", svg[:min(len(svg), 40)])
	}
	if got := strings.Count(svg, "<circle"); got != len(res.Coordinates) {
		t.Errorf("rendered %d circles, want one per point (%d)", got, len(res.Coordinates))
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("output is not closed")
	}
}

func TestRenderSVGEmptyResult(t *testing.T) {
	svg := string(RenderSVG(sim.Result{}))
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("empty result should still render a valid element, got %q", svg)
	}
}

func TestRenderSVGSinglePoint(t *testing.T) {
	p := sim.DefaultParams()
	p.TMax = 0

	res, err := sim.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	svg := string(RenderSVG(res))
	if strings.Count(svg, "<circle") != 1 {
		t.Error("single-point run should render exactly one circle")
	}
}
