// Package render formats input-matrix frames for the command line: a JSON
// document for one-shot reads and a text grid for the continuous monitor.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kurozz/matrix-control/internal/domain/matrix"
)

// Cell markers for the text grid.
const (
	markClosed = "[X]"
	markOpen   = "[ ]"
)

// jsonFrame is the wire shape of a one-shot read: per-cell "on"/"off"
// strings in row-major order.
type jsonFrame struct {
	Matrix [][]string `json:"matrix"`
}

// JSON renders a frame as an indented JSON document.
func JSON(frame matrix.Frame) ([]byte, error) {
	doc := jsonFrame{Matrix: make([][]string, len(frame))}

	for row := range frame {
		doc.Matrix[row] = make([]string, len(frame[row]))

		for col, closed := range frame[row] {
			state := "off"
			if closed {
				state = "on"
			}

			doc.Matrix[row][col] = state
		}
	}

	return json.MarshalIndent(doc, "", "   ")
}

// Grid renders a frame as a text grid with column letters and 1-based row
// numbers, matching the position notation:
//
//	     A    B    C
//	 1  [X]  [ ]  [ ]
//	 2  [ ]  [ ]  [X]
func Grid(frame matrix.Frame) string {
	var b strings.Builder

	b.WriteString("    ")

	for col := 0; col < colCount(frame); col++ {
		fmt.Fprintf(&b, "  %c  ", 'A'+rune(col))
	}

	b.WriteByte('\n')

	for row := range frame {
		fmt.Fprintf(&b, "%2d  ", row+1)

		for _, closed := range frame[row] {
			mark := markOpen
			if closed {
				mark = markClosed
			}

			fmt.Fprintf(&b, " %s ", mark)
		}

		b.WriteByte('\n')
	}

	return b.String()
}

// MonitorFrame clears the terminal and prints the monitor header and grid.
func MonitorFrame(out io.Writer, frame matrix.Frame, interval time.Duration) {
	// ANSI: cursor home, clear screen.
	fmt.Fprint(out, "\033[H\033[2J")
	fmt.Fprintf(out, "Matrix monitor, update interval %s, Ctrl+C to exit\n\n", interval)
	fmt.Fprint(out, Grid(frame))
}

func colCount(frame matrix.Frame) int {
	if len(frame) == 0 {
		return 0
	}

	return len(frame[0])
}
