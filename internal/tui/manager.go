package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/csrent/csrent-cli/internal/admin"
	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/format"
	"github.com/csrent/csrent-cli/internal/resource"
)

// panel is what the app model needs from a resource manager. The two
// managers have different record types, so they are held behind this.
type panel interface {
	title() string
	count() int
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	handleKey(msg tea.KeyMsg) tea.Cmd
	handleMouse(msg tea.MouseMsg, w, h int) tea.Cmd
	view(w, h int) string
	overlay(w, h int) (string, bool)
	capturing() bool
}

type focusArea int

const (
	focusTable focusArea = iota
	focusSearch
	focusForm
)

type resultMsg[R resource.Record] struct {
	kind   string
	result admin.Result[R]
}

type noticeExpiredMsg struct {
	kind string
	seq  uint64
}

// manager drives one admin.Controller from keyboard and mouse input and
// runs the ops it returns as commands.
type manager[R resource.Record] struct {
	ctx  context.Context
	ctrl *admin.Controller[R]
	res  api.Resource[R]
	keys keyMap
	ttl  time.Duration
	now  func() time.Time

	search  textinput.Model
	form    formModel
	formRev uint64
	spinner spinner.Model
	focus   focusArea

	cursor int
	offset int
	width  int
	height int
}

func newManager[R resource.Record](ctx context.Context, ctrl *admin.Controller[R], res api.Resource[R], ttl time.Duration) *manager[R] {
	search := textinput.New()
	search.Placeholder = "id"
	search.Prompt = "Search " + ctrl.Kind().Name + " by id: "
	search.CharLimit = 20
	search.Width = 12
	search.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle

	m := &manager[R]{
		ctx:     ctx,
		ctrl:    ctrl,
		res:     res,
		keys:    defaultKeyMap(),
		ttl:     ttl,
		now:     time.Now,
		search:  search,
		spinner: sp,
	}
	m.syncForm()
	return m
}

func (m *manager[R]) title() string { return m.ctrl.Kind().Title + "s" }
func (m *manager[R]) count() int    { return len(m.ctrl.Records()) }

func (m *manager[R]) init() tea.Cmd {
	return batch(m.spinner.Tick, m.perform(m.ctrl.Load()))
}

func (m *manager[R]) capturing() bool {
	if _, open := m.ctrl.PendingDelete(); open {
		return true
	}
	return m.focus != focusTable
}

// perform runs each op off the event loop and reports back as resultMsg.
func (m *manager[R]) perform(ops ...admin.Op) tea.Cmd {
	ctx, res, kind := m.ctx, m.res, m.ctrl.Kind().Name
	cmds := make([]tea.Cmd, 0, len(ops))
	for _, op := range ops {
		op := op
		cmds = append(cmds, func() tea.Msg {
			return resultMsg[R]{kind: kind, result: admin.Perform(ctx, res, op)}
		})
	}
	return batch(cmds...)
}

func (m *manager[R]) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case resultMsg[R]:
		if msg.kind != m.ctrl.Kind().Name {
			return nil
		}
		return m.apply(msg.result)
	case noticeExpiredMsg:
		if msg.kind == m.ctrl.Kind().Name {
			m.ctrl.Notices().Expire(msg.seq)
		}
		return nil
	case copiedMsg:
		if msg.kind != m.ctrl.Kind().Name {
			return nil
		}
		k := m.ctrl.Kind()
		if msg.err != nil {
			m.ctrl.Notices().Fail(fmt.Sprintf("Failed to copy %s: %v", k.Name, msg.err))
			return nil
		}
		return m.expireAfter(m.ctrl.Notices().Succeed(fmt.Sprintf("%s %s copied to clipboard", k.Title, msg.id)))
	}
	return nil
}

func (m *manager[R]) apply(res admin.Result[R]) tea.Cmd {
	seq := m.ctrl.Notices().SuccessSeq()
	follow := m.ctrl.Apply(res)

	if res.Op.Kind == admin.OpGet && res.Err == nil {
		m.search.SetValue("")
	}
	if res.Op.Reads() {
		m.clampCursor()
	}
	formCmd := m.syncForm()

	var expire tea.Cmd
	if next := m.ctrl.Notices().SuccessSeq(); next != seq {
		expire = m.expireAfter(next)
	}
	return batch(m.perform(follow...), expire, formCmd)
}

// expireAfter hides the success notice seq once the TTL has passed.
func (m *manager[R]) expireAfter(seq uint64) tea.Cmd {
	kind := m.ctrl.Kind().Name
	return tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return noticeExpiredMsg{kind: kind, seq: seq}
	})
}

// syncForm rebuilds the form when the controller replaced its values.
func (m *manager[R]) syncForm() tea.Cmd {
	if m.formRev == m.ctrl.FormRevision() && m.form.fields != nil {
		return nil
	}
	m.formRev = m.ctrl.FormRevision()
	m.form = newFormModel(m.ctrl.FormSpec(), m.ctrl.Form())
	if m.focus == focusForm {
		return m.form.Focus()
	}
	return nil
}

func (m *manager[R]) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.search.Blur()
	m.form.Blur()
	switch f {
	case focusSearch:
		return m.search.Focus()
	case focusForm:
		return m.form.Focus()
	}
	return nil
}

func (m *manager[R]) selectedID() (resource.ID, bool) {
	rows := m.ctrl.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) || rows[m.cursor].Placeholder {
		return 0, false
	}
	return rows[m.cursor].ID, true
}

func (m *manager[R]) clampCursor() {
	n := len(m.ctrl.Records())
	m.cursor = clamp(m.cursor, 0, n-1)
	m.offset = format.ScrollOffset(m.cursor, m.offset, m.tableHeight(), n)
}

func (m *manager[R]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if _, open := m.ctrl.PendingDelete(); open {
		return m.handleConfirmKey(msg)
	}
	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusForm:
		return m.handleFormKey(msg)
	}
	return m.handleTableKey(translateNavKeys(msg))
}

func (m *manager[R]) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		op, ok := m.ctrl.ConfirmDelete()
		if !ok {
			return nil
		}
		return m.perform(op)
	case key.Matches(msg, m.keys.Cancel), msg.String() == "n":
		if !m.ctrl.DeleteInFlight() {
			m.ctrl.DismissDelete()
		}
	}
	return nil
}

func (m *manager[R]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		op, err := m.ctrl.Search(m.search.Value())
		if err != nil {
			return nil
		}
		return m.perform(op)
	case "esc":
		return m.setFocus(focusTable)
	case "tab":
		return m.setFocus(focusForm)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *manager[R]) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		op, err := m.ctrl.Submit(m.form.Values())
		if err != nil {
			return nil
		}
		return m.perform(op)
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelEdit()
		return batch(m.syncForm(), m.setFocus(focusTable))
	case key.Matches(msg, m.keys.Focus):
		return m.setFocus(focusTable)
	}
	return m.form.Update(msg)
}

func (m *manager[R]) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case msg.Type == tea.KeyPgUp:
		m.moveCursor(-maxInt(1, m.tableHeight()))
	case msg.Type == tea.KeyPgDown:
		m.moveCursor(maxInt(1, m.tableHeight()))
	case key.Matches(msg, m.keys.List), key.Matches(msg, m.keys.Refresh):
		return m.perform(m.ctrl.Load())
	case key.Matches(msg, m.keys.Search):
		return m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.New):
		m.ctrl.CancelEdit()
		return batch(m.syncForm(), m.setFocus(focusForm))
	case key.Matches(msg, m.keys.Edit):
		id, ok := m.selectedID()
		if !ok || !m.ctrl.Dispatch(admin.Intent{Kind: admin.IntentEdit, ID: id}) {
			return nil
		}
		m.syncForm()
		return m.setFocus(focusForm)
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			m.ctrl.Dispatch(admin.Intent{Kind: admin.IntentDelete, ID: id})
		}
	case key.Matches(msg, m.keys.Copy):
		if id, ok := m.selectedID(); ok {
			if rec, ok := m.ctrl.Record(id); ok {
				return copyRecord(m.ctrl.Kind().Name, id, rec)
			}
		}
	case key.Matches(msg, m.keys.Focus):
		return m.setFocus(focusForm)
	case key.Matches(msg, m.keys.Cancel):
		if _, editing := m.ctrl.EditID(); editing {
			m.ctrl.CancelEdit()
			return m.syncForm()
		}
		m.ctrl.Notices().ClearError()
	}
	return nil
}

func (m *manager[R]) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// handleMouse dismisses the delete overlay on a click outside its box.
func (m *manager[R]) handleMouse(msg tea.MouseMsg, w, h int) tea.Cmd {
	if _, open := m.ctrl.PendingDelete(); !open {
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	box := m.confirmBox()
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	x0, y0 := maxInt(0, (w-bw)/2), maxInt(0, (h-bh)/2)
	inside := msg.X >= x0 && msg.X < x0+bw && msg.Y >= y0 && msg.Y < y0+bh
	if !inside && !m.ctrl.DeleteInFlight() {
		m.ctrl.DismissDelete()
	}
	return nil
}

func (m *manager[R]) confirmBox() string {
	id, _ := m.ctrl.PendingDelete()
	k := m.ctrl.Kind()
	subject := fmt.Sprintf("%s #%s", k.Name, id)
	if rec, ok := m.ctrl.Record(id); ok {
		cells := m.ctrl.Schema().Cells(rec)
		if len(cells) > 1 && cells[1].Text != resource.NotAvailable {
			subject = fmt.Sprintf("%s #%s (%s)", k.Name, id, cells[1].Text)
		}
	}
	body := []string{
		titleStyle.Render("Delete " + k.Title),
		"",
		"Are you sure you want to delete " + subject + "?",
		mutedStyle.Render("This action cannot be undone."),
		"",
	}
	if m.ctrl.DeleteInFlight() {
		body = append(body, m.spinner.View()+" Deleting…")
	} else {
		body = append(body, dangerButton().Render("y Delete")+"  "+buttonStyle(false).Render("esc Cancel"))
	}
	return panelStyle(true).Padding(1, 2).Render(strings.Join(body, "\n"))
}

func (m *manager[R]) overlay(w, h int) (string, bool) {
	if _, open := m.ctrl.PendingDelete(); !open {
		return "", false
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.confirmBox()), true
}

const formWidth = 44

// tableHeight is the number of data rows that fit on screen.
func (m *manager[R]) tableHeight() int {
	// tabs, search line, notice line, blank, table header and rule, footer.
	return maxInt(3, m.height-9)
}

func (m *manager[R]) view(w, h int) string {
	n := m.ctrl.Notices()

	status := ""
	if t := m.ctrl.LastLoaded(); !t.IsZero() {
		status = mutedStyle.Render(fmt.Sprintf("%d %s · refreshed %s", len(m.ctrl.Records()), strings.ToLower(m.title()), humanize.RelTime(t, m.now(), "ago", "from now")))
	}
	if n.Loading() {
		status = m.spinner.View() + " " + mutedStyle.Render("Loading…")
	}
	searchLine := m.search.View()
	if m.focus != focusSearch && m.search.Value() == "" {
		searchLine = mutedStyle.Render(m.search.Prompt + "press /")
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, searchLine, "   ", status)

	notice := ""
	switch {
	case n.Error() != "":
		notice = errorStyle.Render("✗ " + n.Error())
	case n.Success() != "":
		notice = successStyle.Render("✓ " + n.Success())
	}

	tableW := maxInt(40, w-formWidth-2)
	sel := m.cursor
	if m.focus != focusTable {
		sel = -1
	}
	tbl := format.RenderTable(m.ctrl.Schema().Columns(), m.ctrl.Rows(), tableStyles(), format.TableView{
		Cursor: sel,
		Offset: m.offset,
		Height: m.tableHeight(),
	})
	tbl = lipgloss.NewStyle().MaxWidth(tableW).Render(tbl)

	body := lipgloss.JoinHorizontal(lipgloss.Top, tbl, "  ", m.form.View(formWidth, m.focus == focusForm))
	return lipgloss.JoinVertical(lipgloss.Left, top, notice, "", body)
}
