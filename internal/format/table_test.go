package format

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/csrent/csrent-cli/internal/resource"
)

func TestRenderTable_Placeholder(t *testing.T) {
	out := ansi.Strip(RenderTable(resource.Spaces.Columns(), resource.Rows[resource.Space](resource.Spaces, nil), DefaultTableStyles(), TableView{Cursor: -1}))
	assert.Contains(t, out, "Description")
	assert.Contains(t, out, "No spaces found")
	assert.Equal(t, 1, strings.Count(out, "No spaces found"))
}

func TestRenderTable_RowsAndBadges(t *testing.T) {
	rows := resource.Rows(resource.Spaces, []resource.Space{
		{ID: 1, Name: "Hall A", Available: true, Capacity: 50, Price: 100},
		{ID: 2, Name: "Room B", Capacity: 4, Price: 9.5},
	})
	out := ansi.Strip(RenderTable(resource.Spaces.Columns(), rows, DefaultTableStyles(), TableView{Cursor: 0}))
	assert.Contains(t, out, "Hall A")
	assert.Contains(t, out, "$100")
	assert.Contains(t, out, "Disponible")
	assert.Contains(t, out, "No disponible")
	assert.Contains(t, out, "$9.5")
}

func TestRenderTable_WindowedRows(t *testing.T) {
	var users []resource.User
	for i := 1; i <= 10; i++ {
		users = append(users, resource.User{ID: resource.ID(i), Name: "user-" + string(rune('a'+i-1)), Role: "Usuario"})
	}
	rows := resource.Rows(resource.Users, users)
	out := ansi.Strip(RenderTable(resource.Users.Columns(), rows, DefaultTableStyles(), TableView{Cursor: 5, Offset: 4, Height: 3}))
	assert.NotContains(t, out, "user-d")
	assert.Contains(t, out, "user-e")
	assert.Contains(t, out, "user-g")
	assert.NotContains(t, out, "user-h")
}

func TestRenderTable_TruncatesLongCells(t *testing.T) {
	rows := resource.Rows(resource.Users, []resource.User{{ID: 1, Name: strings.Repeat("x", 60), Role: "Admin"}})
	out := ansi.Strip(RenderTable(resource.Users.Columns(), rows, DefaultTableStyles(), TableView{Cursor: -1}))
	assert.NotContains(t, out, strings.Repeat("x", 21))
	assert.Contains(t, out, "…")
}

func TestScrollOffset(t *testing.T) {
	assert.Equal(t, 0, ScrollOffset(2, 0, 5, 3))
	assert.Equal(t, 0, ScrollOffset(4, 0, 5, 20))
	assert.Equal(t, 1, ScrollOffset(5, 0, 5, 20))
	assert.Equal(t, 3, ScrollOffset(3, 6, 5, 20))
	assert.Equal(t, 15, ScrollOffset(19, 0, 5, 20))
}
