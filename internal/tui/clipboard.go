package tui

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csrent/csrent-cli/internal/resource"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type copiedMsg struct {
	kind string
	id   resource.ID
	err  error
}

// copyRecord puts rec on the system clipboard as indented JSON.
func copyRecord(kind string, id resource.ID, rec any) tea.Cmd {
	return func() tea.Msg {
		b, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return copiedMsg{kind: kind, id: id, err: fmt.Errorf("encode: %w", err)}
		}
		return copiedMsg{kind: kind, id: id, err: writeClipboard(string(b))}
	}
}
