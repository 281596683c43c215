package bridges

import "strings"

// TextFormat renders a board as a printable grid: island clues as decimal
// digits, '-' / '=' for horizontal single/double bridges, '|' / '"' for
// vertical single/double bridges (doubled glyph when Count >= 2), '.' for
// empty cells — the same one-rune-per-cell console rendering style as
// pkg/slide's TextFormat.
func TextFormat(b *Board) string {
	islandAt := make(map[int]Island, len(b.Islands))
	for _, isl := range b.Islands {
		islandAt[isl.Y*b.W+isl.X] = isl
	}
	bridgeAt := make(map[int]rune, b.W*b.H)
	for _, e := range b.Edges {
		if e.Count == 0 {
			continue
		}
		a, c := b.Islands[e.A], b.Islands[e.B]
		glyph := horizontalGlyph(e.Count)
		if !e.Horizontal {
			glyph = verticalGlyph(e.Count)
		}
		if e.Horizontal {
			for x := a.X + 1; x < c.X; x++ {
				bridgeAt[a.Y*b.W+x] = glyph
			}
		} else {
			for y := a.Y + 1; y < c.Y; y++ {
				bridgeAt[y*b.W+a.X] = glyph
			}
		}
	}

	var sb strings.Builder
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			i := y*b.W + x
			if isl, ok := islandAt[i]; ok {
				sb.WriteByte(byte('0' + isl.Clue))
			} else if glyph, ok := bridgeAt[i]; ok {
				sb.WriteRune(glyph)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func horizontalGlyph(count int) rune {
	if count >= 2 {
		return '='
	}
	return '-'
}

func verticalGlyph(count int) rune {
	if count >= 2 {
		return '"'
	}
	return '|'
}
