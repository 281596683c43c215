// Package svgdraw is a concrete drawing.Drawing implementation that
// renders one redraw pass to a static SVG document, using the same
// github.com/ajstarks/svgo canvas the broader example corpus uses for its
// own SVG exporter. It stands in for a real interactive host canvas (out
// of scope per spec §1/Non-goals): cmd/puzzlecli's "-format svg" output uses
// it to produce an offline snapshot of a puzzle's initial state.
package svgdraw

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"puzzlecore/pkg/drawing"
)

// Canvas accumulates one redraw pass into an in-memory SVG document. It is
// not safe for concurrent use, matching every other Drawing implementation
// a single-threaded midend drives (spec §5).
type Canvas struct {
	buf    *bytes.Buffer
	canvas *svg.SVG
	w, h   int

	colours []string // index == drawing.Colour, value == an SVG/CSS colour
	clips   []drawing.Rect
}

// New creates a Canvas of the given pixel size. colours is a back-end's
// ColourTable() translated into concrete CSS colour strings by the caller
// (cmd/puzzlecli maps each colour name to a fixed palette entry); an index
// beyond len(colours) renders as a visible placeholder rather than
// panicking, so a back-end bug shows up as a magenta rectangle instead of
// a crash.
func New(w, h int, colours []string) *Canvas {
	return &Canvas{w: w, h: h, colours: colours}
}

func (c *Canvas) colourString(col drawing.Colour) string {
	i := int(col)
	if i < 0 || i >= len(c.colours) {
		return "#ff00ff"
	}
	return c.colours[i]
}

func (c *Canvas) StartDraw() {
	c.buf = new(bytes.Buffer)
	c.canvas = svg.New(c.buf)
	c.canvas.Start(c.w, c.h)
}

func (c *Canvas) EndDraw() {
	c.canvas.End()
}

// Bytes returns the finished SVG document from the most recent
// StartDraw/EndDraw pair.
func (c *Canvas) Bytes() []byte {
	if c.buf == nil {
		return nil
	}
	return c.buf.Bytes()
}

func (c *Canvas) Clip(r drawing.Rect) {
	c.clips = append(c.clips, r)
	c.canvas.Group(fmt.Sprintf("clip-path:url(#clip%d)", len(c.clips)))
}

func (c *Canvas) Unclip() {
	if len(c.clips) == 0 {
		return
	}
	c.clips = c.clips[:len(c.clips)-1]
	c.canvas.Gend()
}

func (c *Canvas) DrawRect(r drawing.Rect, colour drawing.Colour) {
	c.canvas.Rect(r.X, r.Y, r.W, r.H, "fill:"+c.colourString(colour))
}

func (c *Canvas) DrawLine(from, to drawing.Point, colour drawing.Colour) {
	c.canvas.Line(from.X, from.Y, to.X, to.Y, "stroke:"+c.colourString(colour)+";stroke-width:2")
}

func (c *Canvas) DrawCircle(centre drawing.Point, radius int, fill, outline drawing.Colour, filled bool) {
	style := "stroke:" + c.colourString(outline) + ";stroke-width:1;"
	if filled {
		style += "fill:" + c.colourString(fill)
	} else {
		style += "fill:none"
	}
	c.canvas.Circle(centre.X, centre.Y, radius, style)
}

func (c *Canvas) DrawPolygon(points []drawing.Point, fill, outline drawing.Colour, filled bool) {
	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	style := "stroke:" + c.colourString(outline) + ";stroke-width:1;"
	if filled {
		style += "fill:" + c.colourString(fill)
	} else {
		style += "fill:none"
	}
	c.canvas.Polygon(xs, ys, style)
}

func (c *Canvas) DrawText(p drawing.Point, fontIsMonospace bool, size int, align drawing.Align, colour drawing.Colour, text string) {
	family := "sans-serif"
	if fontIsMonospace {
		family = "monospace"
	}
	anchor := "start"
	switch align & 0xf {
	case drawing.AlignCentre:
		anchor = "middle"
	case drawing.AlignRight:
		anchor = "end"
	}
	style := fmt.Sprintf("font-family:%s;font-size:%dpx;text-anchor:%s;fill:%s", family, size, anchor, c.colourString(colour))
	c.canvas.Text(p.X, p.Y, text, style)
}

// Update is a no-op: a static SVG document has no incremental refresh
// concept, everything in one StartDraw/EndDraw pass is already "the
// screen".
func (c *Canvas) Update(r drawing.Rect) {}

// StatusBar is a no-op: there is no host status line to set when rendering
// to a file.
func (c *Canvas) StatusBar(text string) {}

// blitter is the opaque handle SaveBlitter/LoadBlitter exchange. A static,
// single-pass SVG renderer never needs to restore pixels it painted over
// mid-drag (there is no drag to animate in an offline render), so both
// operations are no-ops and the handle carries nothing.
type blitter struct{}

func (blitter) blitter() {}

func (c *Canvas) SaveBlitter(r drawing.Rect) drawing.Blitter { return blitter{} }

func (c *Canvas) LoadBlitter(b drawing.Blitter, at drawing.Point) {}

var _ drawing.Drawing = (*Canvas)(nil)
