// Package drawing defines the render-agnostic drawing protocol back-ends
// use to paint a puzzle's board. It is a capability interface (spec §4.C):
// a concrete implementation (a real canvas, a test recorder, an SVG
// exporter such as pkg/svgdraw) satisfies Drawing; back-ends only ever see
// the interface, never a specific host's canvas type.
package drawing

// Align enumerates text alignment flags for DrawText, matching the host's
// horizontal/vertical combinations.
type Align int

const (
	AlignLeft Align = iota
	AlignCentre
	AlignRight
)

const (
	// VAlign* are OR-combined with a horizontal Align via the high bits,
	// mirroring the flag-combination style the reference collection uses
	// for its ALIGN_* constants.
	VAlignBaseline Align = iota << 4
	VAlignTop            = VAlignBaseline + (1 << 4)
	VAlignVCentre        = VAlignBaseline + (2 << 4)
)

// Rect is an axis-aligned pixel rectangle, used for clip regions and
// invalidated-region notification.
type Rect struct {
	X, Y, W, H int
}

// Colour is a back-end colour-table index; back-ends never encode literal
// colours, only indices into their own ColourTable (spec §4.D).
type Colour int

// Point is an (x, y) vertex, used by DrawLine and DrawPolygon.
type Point struct {
	X, Y int
}

// Blitter is an opaque offscreen snapshot handle returned by SaveBlitter,
// used to restore a rectangle the back-end temporarily painted over (e.g.
// while dragging a piece).
type Blitter interface {
	// blitter is unexported to keep the handle opaque to back-ends; only
	// a Drawing implementation may construct one.
	blitter()
}

// Drawing is the capability set a back-end invokes to paint a puzzle. Every
// paint pass must be bracketed in StartDraw/EndDraw; a back-end MUST call
// Update for every rectangle it actually changed, so the host knows what to
// refresh.
type Drawing interface {
	StartDraw()
	EndDraw()

	Clip(r Rect)
	Unclip()

	DrawRect(r Rect, colour Colour)
	DrawLine(from, to Point, colour Colour)
	DrawCircle(centre Point, radius int, fill, outline Colour, filled bool)
	DrawPolygon(points []Point, fill, outline Colour, filled bool)
	DrawText(p Point, fontIsMonospace bool, size int, align Align, colour Colour, text string)

	// Update tells the host that r needs to be refreshed on screen.
	Update(r Rect)

	// StatusBar sets the host's status line text.
	StatusBar(text string)

	// SaveBlitter snapshots the pixels under r for later restore (used
	// while dragging a piece over cells it doesn't own).
	SaveBlitter(r Rect) Blitter
	// LoadBlitter restores pixels previously captured by SaveBlitter at
	// the rectangle's current top-left, then releases the handle.
	LoadBlitter(b Blitter, at Point)
}
