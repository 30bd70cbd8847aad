package resource

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown for values that are missing or zero.
const NotAvailable = "N/A"

// Badge classes. The table renderers map them to styles.
const (
	ClassStatusAvailable   = "status-available"
	ClassStatusUnavailable = "status-unavailable"
	ClassRoleAdmin         = "role-admin"
	ClassRoleConsulta      = "role-consulta"
	ClassRoleUsuario       = "role-usuario"
	ClassRoleModerador     = "role-moderador"
)

type Column struct {
	Title string
	Width int
}

// Cell is one rendered value. Class is empty for plain text cells.
type Cell struct {
	Text  string
	Class string
}

// Row is the display projection of one record. A placeholder row carries a
// single message cell meant to span the whole table.
type Row struct {
	ID          ID
	Cells       []Cell
	Placeholder bool
}

// Rows projects records into table rows, in input order. An empty input
// yields exactly one placeholder row.
func Rows[R Record](s Schema[R], records []R) []Row {
	if len(records) == 0 {
		return []Row{EmptyRow(s.Kind())}
	}
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{ID: r.RecordID(), Cells: s.Cells(r)})
	}
	return rows
}

func EmptyRow(k Kind) Row {
	return Row{Placeholder: true, Cells: []Cell{{Text: "No " + k.Plural + " found"}}}
}

func text(s string) Cell {
	if s == "" {
		return Cell{Text: NotAvailable}
	}
	return Cell{Text: s}
}

func number(n int64) Cell {
	if n == 0 {
		return Cell{Text: NotAvailable}
	}
	return Cell{Text: strconv.FormatInt(n, 10)}
}

// FormatPrice renders a price as "$" followed by the shortest decimal form.
func FormatPrice(p float64) string {
	if p == 0 {
		return NotAvailable
	}
	return "$" + decimal.NewFromFloat(p).String()
}

// StatusBadge returns the availability badge. There is no third state.
func StatusBadge(available bool) Cell {
	if available {
		return Cell{Text: "Disponible", Class: ClassStatusAvailable}
	}
	return Cell{Text: "No disponible", Class: ClassStatusUnavailable}
}

var roleClasses = map[string]string{
	"Admin":         ClassRoleAdmin,
	"Administrador": ClassRoleAdmin,
	"Consulta":      ClassRoleConsulta,
	"Usuario":       ClassRoleUsuario,
	"Moderador":     ClassRoleModerador,
}

// RoleClass maps a role name to its badge class; unknown roles get the
// generic user class.
func RoleClass(role string) string {
	if c, ok := roleClasses[role]; ok {
		return c
	}
	return ClassRoleUsuario
}

func RoleBadge(role string) Cell {
	c := text(role)
	c.Class = RoleClass(role)
	return c
}
