package slide

import "strings"

// TextFormat renders a board as a printable grid: one rune per cell,
// '#' for walls, '.' for empty, '@' for the main block, a base-36 digit
// for every other anchor (assigned by first appearance in row-major order),
// and the same digit for its back-linked cells, matching the plain
// row-by-row console rendering style of the reference collection's
// board printer.
func TextFormat(b *Board) string {
	which, blocks := BuildBlockIndex(b)

	anchors := make([]int, 0, len(blocks))
	for a := range blocks {
		anchors = append(anchors, a)
	}
	// Assign labels in row-major (ascending index) order for determinism.
	labelOf := make(map[int]byte, len(anchors))
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	sorted := append([]int(nil), anchors...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for i, a := range sorted {
		labelOf[a] = alphabet[i%len(alphabet)]
	}

	var sb strings.Builder
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			i := b.idx(x, y)
			switch {
			case b.Cells[i] == CellWall:
				sb.WriteByte('#')
			case b.Cells[i] == CellEmpty:
				sb.WriteByte('.')
			case b.Cells[i] == CellMainAnchor || which[i] >= 0 && b.Cells[which[i]] == CellMainAnchor:
				sb.WriteByte('@')
			default:
				sb.WriteByte(labelOf[which[i]])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
