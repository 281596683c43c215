package midend

import "puzzlecore/pkg/backend"

// mouseFamily groups a mouse Button code by which physical button it
// names, independent of press/drag/release.
type mouseFamily int

const (
	notMouse mouseFamily = iota
	leftFamily
	middleFamily
	rightFamily
)

func familyOf(b backend.Button) mouseFamily {
	switch b {
	case backend.LeftButton, backend.LeftDrag, backend.LeftRelease:
		return leftFamily
	case backend.MiddleButton, backend.MiddleDrag, backend.MiddleRelease:
		return middleFamily
	case backend.RightButton, backend.RightDrag, backend.RightRelease:
		return rightFamily
	default:
		return notMouse
	}
}

func pressOf(f mouseFamily) backend.Button {
	switch f {
	case leftFamily:
		return backend.LeftButton
	case middleFamily:
		return backend.MiddleButton
	default:
		return backend.RightButton
	}
}

func releaseOf(f mouseFamily) backend.Button {
	switch f {
	case leftFamily:
		return backend.LeftRelease
	case middleFamily:
		return backend.MiddleRelease
	default:
		return backend.RightRelease
	}
}

func dragOf(f mouseFamily) backend.Button {
	switch f {
	case leftFamily:
		return backend.LeftDrag
	case middleFamily:
		return backend.MiddleDrag
	default:
		return backend.RightDrag
	}
}

func isRelease(b backend.Button) bool {
	return b == backend.LeftRelease || b == backend.MiddleRelease || b == backend.RightRelease
}

func isDrag(b backend.Button) bool {
	return b == backend.LeftDrag || b == backend.MiddleDrag || b == backend.RightDrag
}

// SetPriorityOverride installs a per-puzzle priority order: when a button
// press arrives while another is latched, override(held, pressed) is
// consulted, and a true return suppresses the auto-release-then-press
// rewrite (§5, "unless an optional per-puzzle priority order... suppresses
// the new press").
func (m *Midend) SetPriorityOverride(override func(held, pressed backend.Button) bool) {
	m.priorityOverride = override
}

// applyButtonLatch rewrites one raw input event into the sequence of
// events that should actually reach the back-end, implementing §5's
// button-latch algorithm (and property 6 / scenario S4): drags and
// releases are rewritten to name the latched button, and a press while a
// different button is latched synthesizes a release of the old button
// first unless a priority override suppresses it.
func (m *Midend) applyButtonLatch(ev backend.InputEvent) []backend.InputEvent {
	if ev.HasChar {
		// A character event's Button field is not meaningful.
		return []backend.InputEvent{ev}
	}
	fam := familyOf(ev.Button)
	if fam == notMouse {
		return []backend.InputEvent{ev}
	}

	isPress := ev.Button == pressOf(fam)

	if isPress {
		if m.buttonLatch != nil {
			heldFam := familyOf(*m.buttonLatch)
			if heldFam != fam {
				suppress := m.priorityOverride != nil && m.priorityOverride(*m.buttonLatch, pressOf(fam))
				if !suppress {
					releaseEv := ev
					releaseEv.Button = releaseOf(heldFam)
					latch := pressOf(fam)
					m.buttonLatch = &latch
					return []backend.InputEvent{releaseEv, ev}
				}
				return nil
			}
		}
		latch := pressOf(fam)
		m.buttonLatch = &latch
		return []backend.InputEvent{ev}
	}

	// Drag or release: rewrite to the latched button's family, if any.
	if m.buttonLatch == nil {
		return []backend.InputEvent{ev}
	}
	heldFam := familyOf(*m.buttonLatch)
	rewritten := ev
	if isDrag(ev.Button) {
		rewritten.Button = dragOf(heldFam)
	} else if isRelease(ev.Button) {
		rewritten.Button = releaseOf(heldFam)
		m.buttonLatch = nil
	}
	return []backend.InputEvent{rewritten}
}
