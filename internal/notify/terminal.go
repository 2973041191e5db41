package notify

import (
	"fmt"
	"io"
	"strings"
)

// TerminalAlerter renders alerts and toasts as plain text on a writer.
// The first button of a modal alert is treated as chosen, since a CLI has no
// interactive dialog; this keeps fallback actions (retry, get-help) running
// in diagnostic sessions.
type TerminalAlerter struct {
	W io.Writer
}

func (t TerminalAlerter) Show(title, message string, buttons []AlertButton, opts AlertOptions) {
	labels := make([]string, 0, len(buttons))
	for _, b := range buttons {
		labels = append(labels, b.Label)
	}
	marker := "ALERT"
	if opts.NonDismissible {
		marker = "ALERT!"
	}
	fmt.Fprintf(t.W, "[%s] %s: %s (%s)\n", marker, title, message, strings.Join(labels, " / "))

	if len(buttons) > 0 && buttons[0].OnPress != nil {
		buttons[0].OnPress()
	}
}

func (t TerminalAlerter) Toast(message string) {
	fmt.Fprintf(t.W, "[toast] %s\n", message)
}

// TerminalHaptics prints the pattern name instead of vibrating.
type TerminalHaptics struct {
	W io.Writer
}

func (t TerminalHaptics) Trigger(pattern HapticPattern) {
	fmt.Fprintf(t.W, "[haptic] %s\n", pattern)
}
