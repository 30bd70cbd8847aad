package resource

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows_EmptyYieldsSinglePlaceholder(t *testing.T) {
	rows := Rows[Space](Spaces, nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Placeholder)
	assert.Equal(t, "No spaces found", rows[0].Cells[0].Text)

	rows = Rows(Users, []User{})
	require.Len(t, rows, 1)
	assert.Equal(t, "No users found", rows[0].Cells[0].Text)
}

func TestRows_OneRowPerRecordInOrder(t *testing.T) {
	spaces := []Space{
		{ID: 3, Name: "C"},
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
	}
	rows := Rows(Spaces, spaces)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.False(t, r.Placeholder)
		assert.Equal(t, spaces[i].ID, r.ID)
		assert.Equal(t, spaces[i].Name, r.Cells[1].Text)
		assert.Len(t, r.Cells, len(Spaces.Columns()))
	}
}

func TestRows_SpaceScenario(t *testing.T) {
	rows := Rows(Spaces, []Space{{ID: 1, Name: "Hall A", Available: true, Capacity: 50, Price: 100}})
	require.Len(t, rows, 1)

	want := []Cell{
		{Text: "1"},
		{Text: "Hall A"},
		{Text: NotAvailable},
		{Text: NotAvailable},
		{Text: "50"},
		{Text: "$100"},
		{Text: "Disponible", Class: ClassStatusAvailable},
	}
	if diff := cmp.Diff(want, rows[0].Cells); diff != "" {
		t.Fatalf("unexpected cells (-want +got):\n%s", diff)
	}
}

func TestRows_MissingFieldsRenderNA(t *testing.T) {
	rows := Rows(Users, []User{{}})
	require.Len(t, rows, 1)
	for i, c := range rows[0].Cells {
		assert.Equal(t, NotAvailable, c.Text, "cell %d", i)
	}

	rows = Rows(Spaces, []Space{{}})
	for i, c := range rows[0].Cells[:6] {
		assert.Equal(t, NotAvailable, c.Text, "cell %d", i)
	}
}

func TestStatusBadge_IsExhaustive(t *testing.T) {
	assert.Equal(t, Cell{Text: "Disponible", Class: ClassStatusAvailable}, StatusBadge(true))
	assert.Equal(t, Cell{Text: "No disponible", Class: ClassStatusUnavailable}, StatusBadge(false))
}

func TestRoleClass(t *testing.T) {
	cases := map[string]string{
		"Admin":         ClassRoleAdmin,
		"Administrador": ClassRoleAdmin,
		"Consulta":      ClassRoleConsulta,
		"Usuario":       ClassRoleUsuario,
		"Moderador":     ClassRoleModerador,
		"":              ClassRoleUsuario,
		"root":          ClassRoleUsuario,
		"admin":         ClassRoleUsuario,
	}
	for role, want := range cases {
		assert.Equal(t, want, RoleClass(role), "role %q", role)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$100", FormatPrice(100))
	assert.Equal(t, "$12.5", FormatPrice(12.5))
	assert.Equal(t, NotAvailable, FormatPrice(0))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, ID(7), id)

	for _, raw := range []string{"", "   ", "abc", "-1", "0"} {
		_, err := ParseID(raw)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "input %q", raw)
	}
}
