package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/tkjaer/tcpping/internal/shared"
)

// TextOutput prints ping-style lines, one per attempt, and a statistics block
type TextOutput struct {
	mu       sync.Mutex
	w        io.Writer
	color    bool
	okStyle  lipgloss.Style
	errStyle lipgloss.Style
}

// NewTextOutput writes to w, colouring attempt lines when color is set
func NewTextOutput(w io.Writer, color bool) *TextOutput {
	t := &TextOutput{w: w, color: color}
	if color {
		r := lipgloss.NewRenderer(w)
		t.okStyle = r.NewStyle().Foreground(lipgloss.Color("2"))
		t.errStyle = r.NewStyle().Foreground(lipgloss.Color("1"))
	}
	return t
}

func (t *TextOutput) Start(target shared.Target) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if target.HostIsIP {
		fmt.Fprintf(t.w, "TCP PING %s\n", target.Endpoint())
		return
	}
	fmt.Fprintf(t.w, "TCP PING %s %s\n", target.Host, target.Endpoint())
}

func (t *TextOutput) CompleteAttempt(target shared.Target, attempt shared.Attempt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, t.render(formatAttempt(target, attempt), attempt.Success()))
}

func (t *TextOutput) CompleteRun(summary shared.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "\n--- %s tcp ping statistics ---\n", summary.Host)
	fmt.Fprintf(t.w, "%d packets transmitted, %d packets received, %.1f%% packet loss\n",
		summary.Sent, summary.Received, summary.LossPct)
	fmt.Fprintf(t.w, "round-trip min/avg/max/stddev = %.3f/%.3f/%.3f/%.3f ms\n",
		summary.Min, summary.Avg, summary.Max, summary.StdDev)
}

func (t *TextOutput) Close() error { return nil }

func (t *TextOutput) render(line string, success bool) string {
	if !t.color {
		return line
	}
	if success {
		return t.okStyle.Render(line)
	}
	return t.errStyle.Render(line)
}

// formatAttempt builds the per-attempt line without colouring
func formatAttempt(target shared.Target, attempt shared.Attempt) string {
	if attempt.Success() {
		return fmt.Sprintf("Connected to %s, tcp_seq=%d time=%.3f ms",
			target.Endpoint(), attempt.Seq, attempt.LatencyMs())
	}
	return fmt.Sprintf("Failed to connect to %s, tcp_seq=%d %s",
		target.Endpoint(), attempt.Seq, shared.DescribeError(attempt.Err))
}
