package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ConsoleNotifier writes notifications to a terminal stream.
type ConsoleNotifier struct {
	w     io.Writer
	title *color.Color
}

// NewConsoleNotifier creates a notifier writing to w.
func NewConsoleNotifier(w io.Writer, useColors bool) *ConsoleNotifier {
	title := color.New(color.FgYellow, color.Bold)
	if useColors {
		title.EnableColor()
	} else {
		title.DisableColor()
	}
	return &ConsoleNotifier{w: w, title: title}
}

// Notify implements Notifier.
func (n *ConsoleNotifier) Notify(_ context.Context, msg Message) error {
	_, err := fmt.Fprintf(n.w, "🔔 %s: %s\n", n.title.Sprint(msg.Title), msg.Body)
	return err
}
