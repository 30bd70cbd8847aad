// Package admin holds the state machine shared by the spaces and users
// panels. A Controller never performs I/O: it returns Op values for a
// dispatcher to run and consumes their Results.
package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/log"
	"github.com/csrent/csrent-cli/internal/resource"
)

type Controller[R resource.Record] struct {
	schema resource.Schema[R]
	logger *slog.Logger
	now    func() time.Time

	notices Notices

	editing bool
	editID  resource.ID

	deleting   bool
	deleteBusy bool
	deleteID   resource.ID

	records    []R
	index      map[resource.ID]R
	gen        uint64
	lastLoaded time.Time

	form    resource.Form
	formRev uint64
}

func New[R resource.Record](schema resource.Schema[R], logger *slog.Logger) *Controller[R] {
	if logger == nil {
		logger = log.Discard()
	}
	return &Controller[R]{
		schema: schema,
		logger: logger.With(slog.String("resource", schema.Kind().Plural)),
		now:    time.Now,
		index:  map[resource.ID]R{},
		form:   resource.Form{},
	}
}

func (c *Controller[R]) Schema() resource.Schema[R] { return c.schema }
func (c *Controller[R]) Kind() resource.Kind        { return c.schema.Kind() }

// Load starts a full list refresh.
func (c *Controller[R]) Load() Op {
	c.gen++
	c.notices.StartLoading()
	return Op{Kind: OpList, Gen: c.gen}
}

// Search starts a lookup by id. Blank or malformed input is rejected
// without issuing a request.
func (c *Controller[R]) Search(raw string) (Op, error) {
	id, err := resource.ParseID(raw)
	if err != nil {
		c.fail(OpGet, err)
		return Op{}, err
	}
	c.gen++
	c.notices.StartLoading()
	return Op{Kind: OpGet, Gen: c.gen, ID: id}, nil
}

func (c *Controller[R]) Dispatch(in Intent) bool {
	switch in.Kind {
	case IntentEdit:
		return c.BeginEdit(in.ID)
	case IntentDelete:
		c.RequestDelete(in.ID)
		return true
	}
	return false
}

// BeginEdit switches to editing the record with id. Ids not present in the
// last rendered table are ignored.
func (c *Controller[R]) BeginEdit(id resource.ID) bool {
	rec, ok := c.index[id]
	if !ok {
		return false
	}
	c.editing = true
	c.editID = id
	c.setForm(c.schema.FormFrom(rec))
	return true
}

func (c *Controller[R]) CancelEdit() { c.reset() }

func (c *Controller[R]) reset() {
	c.editing = false
	c.editID = 0
	c.setForm(resource.Form{})
}

func (c *Controller[R]) setForm(f resource.Form) {
	c.form = f
	c.formRev++
}

// Submit validates values for the current mode and returns the create or
// update op. On validation failure no op is returned and the edit state is
// kept.
func (c *Controller[R]) Submit(values resource.Form) (Op, error) {
	mode := c.Mode()
	kind := OpCreate
	if mode == resource.ModeUpdate {
		kind = OpUpdate
	}
	c.form = values
	payload, err := c.schema.Payload(values, mode)
	if err != nil {
		c.fail(kind, err)
		return Op{}, err
	}
	c.notices.StartLoading()
	return Op{Kind: kind, ID: c.editID, Payload: payload}, nil
}

func (c *Controller[R]) RequestDelete(id resource.ID) {
	c.deleting = true
	c.deleteBusy = false
	c.deleteID = id
}

func (c *Controller[R]) DismissDelete() {
	c.deleting = false
	c.deleteBusy = false
	c.deleteID = 0
}

// ConfirmDelete returns the delete op for the pending id. It reports false
// when nothing is pending or the delete is already in flight.
func (c *Controller[R]) ConfirmDelete() (Op, bool) {
	if !c.deleting || c.deleteBusy {
		return Op{}, false
	}
	c.deleteBusy = true
	c.notices.StartLoading()
	return Op{Kind: OpDelete, ID: c.deleteID}, true
}

// Apply folds the result of a previously returned op into the state and
// returns any follow-up ops. List and get results older than the latest
// issued read are dropped.
func (c *Controller[R]) Apply(res Result[R]) []Op {
	c.notices.StopLoading()
	op := res.Op
	if op.Reads() && op.Gen != c.gen {
		c.logger.Debug("discarding stale result", slog.String("op", op.Kind.String()), slog.Uint64("gen", op.Gen), slog.Uint64("latest", c.gen))
		return nil
	}

	switch op.Kind {
	case OpList, OpGet:
		if res.Err != nil {
			c.fail(op.Kind, res.Err)
			return nil
		}
		c.setRecords(res.Records)
		return nil

	case OpCreate, OpUpdate:
		if res.Err != nil {
			c.fail(op.Kind, res.Err)
			return nil
		}
		c.succeed(op.Kind)
		c.reset()
		return []Op{c.Load()}

	case OpDelete:
		if c.deleting && c.deleteID == op.ID {
			c.DismissDelete()
		}
		if res.Err != nil {
			c.fail(op.Kind, res.Err)
			return nil
		}
		c.succeed(op.Kind)
		return []Op{c.Load()}
	}
	return nil
}

func (c *Controller[R]) setRecords(records []R) {
	c.records = records
	c.index = make(map[resource.ID]R, len(records))
	for _, r := range records {
		c.index[r.RecordID()] = r
	}
	c.lastLoaded = c.now()
}

func (c *Controller[R]) succeed(kind OpKind) {
	past := map[OpKind]string{OpCreate: "created", OpUpdate: "updated", OpDelete: "deleted"}[kind]
	msg := fmt.Sprintf("%s %s successfully", c.Kind().Title, past)
	c.notices.Succeed(msg)
	c.logger.Info(msg, slog.String("op", kind.String()))
}

func (c *Controller[R]) fail(kind OpKind, err error) {
	subject := c.Kind().Name
	if kind == OpList {
		subject = c.Kind().Plural
	}
	c.notices.Fail(fmt.Sprintf("Failed to %s %s: %v", kind.verb(), subject, err))

	attrs := []any{slog.String("op", kind.String()), slog.Any("error", err)}
	var verr *resource.ValidationError
	if errors.As(err, &verr) {
		c.logger.Warn("invalid input", append(attrs, slog.String("field", verr.Field))...)
		return
	}
	if status := api.StatusOf(err); status != 0 {
		attrs = append(attrs, slog.Int("status", status))
	}
	c.logger.Error("operation failed", attrs...)
}

func (c *Controller[R]) Mode() resource.Mode {
	if c.editing {
		return resource.ModeUpdate
	}
	return resource.ModeCreate
}

// EditID returns the id being edited and whether an edit is active.
func (c *Controller[R]) EditID() (resource.ID, bool) { return c.editID, c.editing }

// PendingDelete returns the id awaiting confirmation and whether the overlay
// is open.
func (c *Controller[R]) PendingDelete() (resource.ID, bool) { return c.deleteID, c.deleting }

func (c *Controller[R]) DeleteInFlight() bool { return c.deleteBusy }

func (c *Controller[R]) Records() []R { return c.records }

func (c *Controller[R]) Record(id resource.ID) (R, bool) {
	r, ok := c.index[id]
	return r, ok
}

func (c *Controller[R]) Rows() []resource.Row { return resource.Rows(c.schema, c.records) }

// Form returns the values the form should display. FormRevision changes
// whenever the controller replaces them.
func (c *Controller[R]) Form() resource.Form  { return c.form }
func (c *Controller[R]) FormRevision() uint64 { return c.formRev }

type FormSpec struct {
	Title  string
	Submit string
	Fields []resource.Field
}

func (c *Controller[R]) FormSpec() FormSpec {
	k := c.Kind()
	mode := c.Mode()
	spec := FormSpec{Title: "New " + k.Title, Submit: "Create " + k.Title, Fields: c.schema.Fields(mode)}
	if mode == resource.ModeUpdate {
		spec.Title = "Edit " + k.Title
		spec.Submit = "Update " + k.Title
	}
	return spec
}

func (c *Controller[R]) Notices() *Notices { return &c.notices }

// LastLoaded is the time the table was last replaced, zero before the
// first successful read.
func (c *Controller[R]) LastLoaded() time.Time { return c.lastLoaded }
