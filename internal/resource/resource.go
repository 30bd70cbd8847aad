// Package resource describes the records managed through the admin API and
// how they are projected into table rows and form values.
package resource

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is the server-assigned identifier of a record.
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID parses user input (a search box, a CLI argument) into an ID.
func ParseID(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "id", Message: "please enter a valid ID"}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: "id", Message: fmt.Sprintf("invalid ID %q", raw)}
	}
	return ID(n), nil
}

type Record interface {
	RecordID() ID
}

// Kind names a resource collection.
type Kind struct {
	Name   string // singular, lower case ("space")
	Plural string // "spaces"
	Title  string // "Space"
	Path   string // collection path on the API ("/space")
}

// Mode is the form mode: creating a new record or updating an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// Schema binds a record type to its columns, row cells and form fields.
type Schema[R Record] interface {
	Kind() Kind
	Columns() []Column
	Cells(r R) []Cell
	Fields(mode Mode) []Field
	FormFrom(r R) Form
	// Payload builds the request body for a create or update call from form
	// values. It returns a *ValidationError when a required value is missing.
	Payload(f Form, mode Mode) (any, error)
}
