package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/csrent/csrent-cli/internal/resource"
)

// TableStyles maps cell roles and badge classes to lipgloss styles.
type TableStyles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Badges   map[string]lipgloss.Style
}

var (
	colorText    = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#374151"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#818cf8"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	colorDanger  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#0369a1", Dark: "#38bdf8"}
)

func DefaultTableStyles() TableStyles {
	badge := lipgloss.NewStyle().Bold(true)
	return TableStyles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Cell:     lipgloss.NewStyle().Foreground(colorText),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Reverse(true),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Border:   lipgloss.NewStyle().Foreground(colorBorder),
		Badges: map[string]lipgloss.Style{
			resource.ClassStatusAvailable:   badge.Foreground(colorSuccess),
			resource.ClassStatusUnavailable: badge.Foreground(colorDanger),
			resource.ClassRoleAdmin:         badge.Foreground(colorDanger),
			resource.ClassRoleConsulta:      badge.Foreground(colorInfo),
			resource.ClassRoleUsuario:       badge.Foreground(colorMuted),
			resource.ClassRoleModerador:     badge.Foreground(colorWarn),
		},
	}
}

// TableView selects the window of rows to draw. Cursor is an index into
// all rows, or -1 for no selection. Height 0 draws every row.
type TableView struct {
	Cursor int
	Offset int
	Height int
}

// RenderTable draws rows under cols. A placeholder row is drawn as a
// single muted line centered under the header.
func RenderTable(cols []resource.Column, rows []resource.Row, st TableStyles, view TableView) string {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title
	}

	placeholder := len(rows) == 1 && rows[0].Placeholder
	visible := rows
	start := 0
	if placeholder {
		visible = nil
	} else if view.Height > 0 {
		start, visible = window(rows, view.Offset, view.Height)
	}

	data := make([][]string, 0, len(visible))
	for _, r := range visible {
		line := make([]string, len(cols))
		for i := range cols {
			if i < len(r.Cells) {
				line[i] = ansi.Truncate(r.Cells[i].Text, cols[i].Width, "…")
			}
		}
		data = append(data, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		BorderColumn(false).
		BorderRow(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			width := 6
			if col < len(cols) {
				width = cols[col].Width
			}
			base := st.Cell
			if row == table.HeaderRow {
				base = st.Header
			} else if idx := start + row; idx < len(rows) {
				cell := resource.Cell{}
				if col < len(rows[idx].Cells) {
					cell = rows[idx].Cells[col]
				}
				if badge, ok := st.Badges[cell.Class]; ok {
					base = badge
				}
				if idx == view.Cursor {
					base = st.Selected
				}
			}
			return base.Padding(0, 1).Width(width + 2)
		})

	out := t.Render()
	if placeholder {
		msg := ""
		if len(rows[0].Cells) > 0 {
			msg = rows[0].Cells[0].Text
		}
		line := lipgloss.PlaceHorizontal(lipgloss.Width(out), lipgloss.Center, st.Muted.Render(msg))
		out = lipgloss.JoinVertical(lipgloss.Left, out, line)
	}
	return strings.TrimRight(out, "\n")
}

func window(rows []resource.Row, offset, height int) (int, []resource.Row) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	end := offset + height
	if end > len(rows) {
		end = len(rows)
	}
	return offset, rows[offset:end]
}

// ScrollOffset returns the offset that keeps cursor inside a window of
// height rows, moving as little as possible from offset.
func ScrollOffset(cursor, offset, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if offset > total-height {
		offset = total - height
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
