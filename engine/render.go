package engine

import (
	"fmt"
	"io"
	"strings"

	"avalam/game"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
)

// RenderBoard draws one line per row. Towers show their signed height, colored
// by owner and in bold once capped. Empty cells are dots.
func RenderBoard(w io.Writer, board *game.Board, profile termenv.Profile) error {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	positive := out.Color("3") // Yellow
	negative := out.Color("1") // Red

	var sb strings.Builder
	for i := 0; i < board.Rows(); i++ {
		for j := 0; j < board.Columns(); j++ {
			cell := board.Cell(i, j)
			if cell == 0 {
				sb.WriteString(out.String("  .").Faint().String())
				continue
			}

			style := out.String(fmt.Sprintf("%+3d", cell))
			if cell > 0 {
				style = style.Foreground(positive)
			} else {
				style = style.Foreground(negative)
			}
			if abs(cell) == board.MaxHeight() {
				style = style.Bold()
			}
			sb.WriteString(style.String())
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "score %d\n", board.Score())

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "failed to write board")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
