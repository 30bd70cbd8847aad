package admin

import (
	"github.com/csrent/csrent-cli/internal/resource"
)

type OpKind int

const (
	OpList OpKind = iota
	OpGet
	OpCreate
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpList:
		return "list"
	case OpGet:
		return "get"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// verb is the word used in user-facing failure notices.
func (k OpKind) verb() string {
	switch k {
	case OpList:
		return "load"
	case OpGet:
		return "find"
	default:
		return k.String()
	}
}

// Op is one network operation requested by a Controller. The dispatcher
// performs it and hands the outcome back through Controller.Apply.
type Op struct {
	Kind OpKind
	// Gen orders list and get operations; see Controller.Apply.
	Gen     uint64
	ID      resource.ID
	Payload any
}

// Reads reports whether the op replaces the table contents.
func (o Op) Reads() bool { return o.Kind == OpList || o.Kind == OpGet }

type Result[R resource.Record] struct {
	Op      Op
	Records []R
	Err     error
}

type IntentKind int

const (
	IntentEdit IntentKind = iota
	IntentDelete
)

// Intent is a row action addressed by record id.
type Intent struct {
	Kind IntentKind
	ID   resource.ID
}
