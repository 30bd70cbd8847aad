package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return maxInt(lo, minInt(v, hi))
}

func translateNavKeys(msg tea.KeyMsg) tea.KeyMsg {
	switch msg.String() {
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	default:
		return msg
	}
}

// batch drops nil commands so callers can append unconditionally.
func batch(cmds ...tea.Cmd) tea.Cmd {
	out := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return tea.Batch(out...)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
