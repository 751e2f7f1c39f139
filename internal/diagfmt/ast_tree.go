package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int // column of the node's connector
}

const treeSpacing = 3

// padTo right-pads s with spaces to w display columns.
func padTo(s string, w int) string {
	if sw := runewidth.StringWidth(s); sw < w {
		return s + strings.Repeat(" ", w-sw)
	}
	return s
}

// renderTree lays node out top-down: the label, a connector row, then the
// child blocks side by side. Widths are display columns.
func renderTree(node *treeNode) treeBlock {
	labelWidth := runewidth.StringWidth(node.label)
	if len(node.children) == 0 {
		return treeBlock{lines: []string{node.label}, width: labelWidth, root: labelWidth / 2}
	}

	blocks := make([]treeBlock, len(node.children))
	height := 0
	for i, child := range node.children {
		blocks[i] = renderTree(child)
		height = max(height, len(blocks[i].lines))
	}

	positions := make([]int, len(blocks))
	total := 0
	for i, blk := range blocks {
		positions[i] = total + blk.root
		total += blk.width
		if i != len(blocks)-1 {
			total += treeSpacing
		}
	}

	center := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := center - rootPos
	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		total += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	rootLine := strings.Repeat(" ", shift) + node.label
	width := max(total, runewidth.StringWidth(rootLine), rootPos+1)
	rootLine = padTo(rootLine, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+height)
	lines = append(lines, rootLine, string(connector))
	for row := range height {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, blk := range blocks {
			line := ""
			if row < len(blk.lines) {
				line = blk.lines[row]
			}
			sb.WriteString(padTo(line, blk.width))
			if i != len(blocks)-1 {
				sb.WriteString(strings.Repeat(" ", treeSpacing))
			}
		}
		lines = append(lines, padTo(sb.String(), width))
	}
	return treeBlock{lines: lines, width: width, root: rootPos}
}
