// Package term renders the escape-sequence heavy parts of the wire protocol:
// colored text, the round countdown bar, and cursor control.
package term

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Output goes to remote terminals over a socket, never to our own
	// stdout, so the usual tty detection must not strip the escapes.
	color.NoColor = false
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Cursor control sequences sent as part of the round protocol.
const (
	// ClearEntry erases the line the player just typed so stray input does
	// not corrupt the next prompt.
	ClearEntry = "\x1b[1A\x1b[2K\r"
	// saveCursor/restoreCursor bracket the in-place countdown refresh.
	saveCursor    = "\x1b[s"
	restoreCursor = "\x1b[u"
	// clearLine wipes the line the cursor sits on.
	clearLine = "\x1b[2K"
)

// Good renders s in the tone used for positive results.
func Good(s string) string { return green(s) }

// Bad renders s in the tone used for zero scores and failures.
func Bad(s string) string { return red(s) }

// Info renders s in the tone used for instructions.
func Info(s string) string { return blue(s) }

// Heading renders s in the tone used for titles and menu headers.
func Heading(s string) string { return cyan(s) }

// ByFraction colors s according to how much of the round remains: green
// above one half, yellow above one quarter, red below that.
func ByFraction(fraction float64, s string) string {
	switch {
	case fraction > 0.5:
		return green(s)
	case fraction > 0.25:
		return yellow(s)
	default:
		return red(s)
	}
}

// ProgressBar returns the countdown line for a round: one '#' per remaining
// second followed by the count, colored by the remaining fraction.
func ProgressBar(remaining, total int) string {
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}

	var fraction float64
	if total > 0 {
		fraction = float64(remaining) / float64(total)
	}
	bar := fmt.Sprintf("%s %d", strings.Repeat("#", remaining), remaining)
	return ByFraction(fraction, bar)
}

// RefreshLines moves up n lines, redraws the given content there, and puts
// the cursor back, leaving any partially typed input intact.
func RefreshLines(n int, content string) string {
	return fmt.Sprintf("%s\x1b[%dA\r%s%s%s", saveCursor, n, clearLine, content, restoreCursor)
}
