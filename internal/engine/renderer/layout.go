package renderer

import (
	"sort"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/pkg/math"
)

// Quad is an axis aligned rectangle in normalized device coordinates.
type Quad struct {
	X0, Y0, X1, Y1 float32
	Color          [3]float32
}

// View is everything the timeline screen shows for one frame.
type View struct {
	FrameCount int
	Ranges     []anim.Range
	Active     string
	Frame      float64
	Paused     bool

	Position math.Vec3 // body position, drawn top-down
	Heading  math.Vec3
}

// Timeline bar geometry in NDC.
const (
	barLeft   = -0.95
	barRight  = 0.95
	barBottom = -0.90
	barTop    = -0.80
	laneGap   = 0.12

	headWidth = 0.004

	groundY     = 0.2
	groundScale = 0.05 // NDC units per meter
	markerSize  = 0.03
)

var (
	colorBar      = [3]float32{0.20, 0.20, 0.25}
	colorRange    = [3]float32{0.35, 0.45, 0.60}
	colorRangeAlt = [3]float32{0.30, 0.38, 0.50}
	colorActive   = [3]float32{0.95, 0.55, 0.15}
	colorHead     = [3]float32{1, 1, 1}
	colorPaused   = [3]float32{1, 0.9, 0.2}
	colorBody     = [3]float32{0.3, 0.8, 0.4}
	colorHeading  = [3]float32{0.9, 0.9, 0.9}
)

// FrameX maps a frame to its x coordinate on the bar.
func FrameX(frame float64, frameCount int) float32 {
	if frameCount <= 0 {
		return barLeft
	}
	t := float32(frame / float64(frameCount))
	return barLeft + (barRight-barLeft)*math.Clamp(t, 0, 1)
}

// Layout builds the quads for a view: the clip bar, one quad per range
// (overlapping ranges go to a second lane), the playhead and a top-down
// marker for the body. The active range is drawn last.
func Layout(v View) []Quad {
	quads := []Quad{{X0: barLeft, Y0: barBottom, X1: barRight, Y1: barTop, Color: colorBar}}

	ranges := append([]anim.Range(nil), v.Ranges...)
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].Name < ranges[j].Name
	})

	var active *Quad
	laneEnd := [2]int{-1, -1}
	for i, r := range ranges {
		lane := 0
		if r.Start < laneEnd[0] {
			lane = 1
		}
		if r.End > laneEnd[lane] {
			laneEnd[lane] = r.End
		}

		y0 := float32(barBottom + laneGap*float32(lane))
		q := Quad{
			X0:    FrameX(float64(r.Start), v.FrameCount),
			Y0:    y0,
			X1:    FrameX(float64(r.End), v.FrameCount),
			Y1:    y0 + (barTop - barBottom),
			Color: colorRange,
		}
		if i%2 == 1 {
			q.Color = colorRangeAlt
		}
		if r.Name == v.Active {
			q.Color = colorActive
			active = &q
			continue
		}
		quads = append(quads, q)
	}
	if active != nil {
		quads = append(quads, *active)
	}

	if v.Active != "" {
		x := FrameX(v.Frame, v.FrameCount)
		head := colorHead
		if v.Paused {
			head = colorPaused
		}
		quads = append(quads, Quad{
			X0: x - headWidth, Y0: barBottom - 0.02,
			X1: x + headWidth, Y1: barTop + laneGap + 0.02,
			Color: head,
		})
	}

	cx := v.Position.X * groundScale
	cy := groundY + v.Position.Z*groundScale
	quads = append(quads, Quad{
		X0: cx - markerSize/2, Y0: cy - markerSize/2,
		X1: cx + markerSize/2, Y1: cy + markerSize/2,
		Color: colorBody,
	})
	if h := v.Heading.Horizontal().Normalize(); h != (math.Vec3{}) {
		tx, ty := cx+h.X*markerSize*1.5, cy+h.Z*markerSize*1.5
		quads = append(quads, Quad{
			X0: tx - markerSize/4, Y0: ty - markerSize/4,
			X1: tx + markerSize/4, Y1: ty + markerSize/4,
			Color: colorHeading,
		})
	}
	return quads
}

// vertices expands quads into two triangles each: x, y, r, g, b.
func vertices(quads []Quad, out []float32) []float32 {
	out = out[:0]
	for _, q := range quads {
		c := q.Color
		for _, p := range [6][2]float32{
			{q.X0, q.Y0}, {q.X1, q.Y0}, {q.X1, q.Y1},
			{q.X0, q.Y0}, {q.X1, q.Y1}, {q.X0, q.Y1},
		} {
			out = append(out, p[0], p[1], c[0], c[1], c[2])
		}
	}
	return out
}
