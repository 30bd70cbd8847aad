package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/mock"
	"github.com/csrent/csrent-cli/internal/resource"
	"github.com/csrent/csrent-cli/internal/state"
)

// apiRecorder wraps the mock router and keeps every request it served.
type apiRecorder struct {
	next     http.Handler
	mu       sync.Mutex
	requests []recorded
	fail     map[string]int
}

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func (a *apiRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	rec := recorded{method: r.Method, path: r.URL.Path}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &rec.body)
	}
	a.mu.Lock()
	a.requests = append(a.requests, rec)
	status := a.fail[r.Method+" "+r.URL.Path]
	a.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}
	r.Body = io.NopCloser(strings.NewReader(string(b)))
	a.next.ServeHTTP(w, r)
}

func (a *apiRecorder) calls(method string) []recorded {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []recorded
	for _, r := range a.requests {
		if method == "" || r.method == method {
			out = append(out, r)
		}
	}
	return out
}

func (a *apiRecorder) failWith(key string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail[key] = status
}

type harness struct {
	t     *testing.T
	api   *apiRecorder
	model Model
	// held are delayed messages not fed back automatically.
	held []tea.Msg
}

func newHarness(t *testing.T, seed *state.State) *harness {
	t.Helper()
	rec := &apiRecorder{next: mock.NewRouter(mock.NewMemory(seed), nil), fail: map[string]int{}}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	m := New(context.Background(), Config{
		Client:    api.Client{BaseURL: srv.URL, HTTP: srv.Client()},
		NoticeTTL: time.Millisecond,
	})
	h := &harness{t: t, api: rec, model: m}
	h.send(tea.WindowSizeMsg{Width: 160, Height: 40})
	h.run(m.Init())
	return h
}

// send feeds msg to the model and runs the resulting commands.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.run(cmd)
}

// run executes cmd and feeds results back until the model is idle.
// Spinner ticks are dropped and notice expiries are held.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case noticeExpiredMsg:
			h.held = append(h.held, msg)
		default:
			next, cmd := h.model.Update(msg)
			h.model = next.(Model)
			queue = append(queue, cmd)
		}
	}
}

func (h *harness) key(s string) {
	h.t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	h.send(msg)
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) view() string { return ansi.Strip(h.model.View()) }

func seedSpaces(spaces ...resource.Space) *state.State {
	st := &state.State{}
	for _, sp := range spaces {
		sp.ID = st.AllocID()
		st.Spaces = append(st.Spaces, sp)
	}
	return st
}

func seedUsers(users ...state.StoredUser) *state.State {
	st := &state.State{}
	for _, u := range users {
		u.ID = st.AllocID()
		st.Users = append(st.Users, u)
	}
	return st
}

func TestInit_LoadsBothResources(t *testing.T) {
	h := newHarness(t, nil)
	gets := h.api.calls(http.MethodGet)
	paths := []string{}
	for _, g := range gets {
		paths = append(paths, g.path)
	}
	assert.ElementsMatch(t, []string{"/space", "/user"}, paths)
}

func TestEmptyList_ShowsPlaceholder(t *testing.T) {
	h := newHarness(t, nil)
	assert.Contains(t, h.view(), "No spaces found")

	h.key("2")
	assert.Contains(t, h.view(), "No users found")
}

func TestSpaceRow_ShowsBadgeAndPrice(t *testing.T) {
	h := newHarness(t, seedSpaces(resource.Space{Name: "Hall A", Available: true, Capacity: 50, Price: 100}))
	out := h.view()
	assert.Contains(t, out, "Hall A")
	assert.Contains(t, out, "Disponible")
	assert.Contains(t, out, "$100")
	assert.NotContains(t, out, "No spaces found")
}

func TestSearch_BlankIssuesNoRequest(t *testing.T) {
	h := newHarness(t, nil)
	before := len(h.api.calls(""))

	h.key("/")
	h.key("enter")

	assert.Len(t, h.api.calls(""), before)
	assert.Contains(t, h.model.spaces.ctrl.Notices().Error(), "please enter a valid ID")
	assert.Contains(t, h.view(), "please enter a valid ID")
}

func TestSearch_FindsRecordAndClearsInput(t *testing.T) {
	h := newHarness(t, seedSpaces(
		resource.Space{Name: "Hall A", Location: "P1", Capacity: 5, Price: 1, Available: true},
		resource.Space{Name: "Room B", Location: "P2", Capacity: 2, Price: 3},
	))
	h.key("/")
	h.typeText("2")
	h.key("enter")

	require.Len(t, h.model.spaces.ctrl.Records(), 1)
	assert.Equal(t, "Room B", h.model.spaces.ctrl.Records()[0].Name)
	assert.Empty(t, h.model.spaces.search.Value())
	last := h.api.calls(http.MethodGet)
	assert.Equal(t, "/space/2", last[len(last)-1].path)
}

func TestEditThenCancel_ResetsForm(t *testing.T) {
	h := newHarness(t, seedUsers(state.StoredUser{User: resource.User{Name: "Ana", Email: "ana@example.com", Role: "Admin"}, Password: "pw"}))
	h.key("2")
	h.key("e")

	u := h.model.users
	id, editing := u.ctrl.EditID()
	require.True(t, editing)
	assert.Equal(t, resource.ID(1), id)
	assert.Equal(t, "Edit User", u.form.title)
	assert.Equal(t, "Ana", u.form.Values()["name"])
	assert.Contains(t, h.view(), "Leave blank to keep current password")

	h.key("esc")
	_, editing = u.ctrl.EditID()
	assert.False(t, editing)
	assert.Equal(t, "New User", u.form.title)
	assert.Equal(t, "Create User", u.form.submit)
	assert.Empty(t, u.form.Values()["name"])
	assert.Empty(t, u.form.Values()[resource.FieldID])
	for _, f := range u.form.fields {
		if f.Name == "password" {
			assert.True(t, f.Required)
			assert.Empty(t, f.Placeholder)
		}
	}
}

func TestUpdateUser_BlankPasswordOmitted(t *testing.T) {
	h := newHarness(t, seedUsers(state.StoredUser{User: resource.User{Name: "Ana", Email: "ana@example.com", Role: "Admin"}, Password: "pw"}))
	h.key("2")
	h.key("e")
	h.key("ctrl+s")

	puts := h.api.calls(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "/user/1", puts[0].path)
	assert.NotContains(t, puts[0].body, "password")
	assert.Equal(t, "User updated successfully", h.model.users.ctrl.Notices().Success())
}

func TestCreateSpace_NotifiesResetsAndRefreshes(t *testing.T) {
	h := newHarness(t, nil)
	listsBefore := len(h.api.calls(http.MethodGet))

	h.key("n")
	h.typeText("Hall A")
	h.key("down")
	h.key("down")
	h.typeText("Floor 1")
	h.key("down")
	h.typeText("50")
	h.key("down")
	h.typeText("100")
	h.key("ctrl+s")

	posts := h.api.calls(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hall A", posts[0].body["name"])
	assert.EqualValues(t, 50, posts[0].body["capacity"])
	assert.Equal(t, true, posts[0].body["available"])

	s := h.model.spaces
	assert.Equal(t, "Space created successfully", s.ctrl.Notices().Success())
	assert.Empty(t, s.form.Values()["name"])
	assert.Len(t, h.api.calls(http.MethodGet), listsBefore+1)
	assert.Contains(t, h.view(), "Hall A")
	assert.Contains(t, h.view(), "$100")

	require.Len(t, h.held, 1)
	h.send(h.held[0])
	assert.Empty(t, s.ctrl.Notices().Success())
}

func TestCreateSpace_ServerErrorShowsStatus(t *testing.T) {
	for _, status := range []int{404, 500} {
		h := newHarness(t, nil)
		h.api.failWith("POST /space", status)
		listsBefore := len(h.api.calls(http.MethodGet))

		h.key("n")
		h.typeText("Hall")
		h.key("down")
		h.key("down")
		h.typeText("P1")
		h.key("down")
		h.typeText("1")
		h.key("down")
		h.typeText("1")
		h.key("ctrl+s")

		errMsg := h.model.spaces.ctrl.Notices().Error()
		assert.Contains(t, errMsg, "Failed to create space")
		assert.Contains(t, errMsg, itoa(status))
		assert.Len(t, h.api.calls(http.MethodGet), listsBefore)
		assert.Equal(t, "Hall", h.model.spaces.form.Values()["name"])
	}
}

func TestDelete_FailureClosesOverlay(t *testing.T) {
	h := newHarness(t, seedSpaces(resource.Space{Name: "Hall A", Location: "P1"}))
	h.api.failWith("DELETE /space/1", 500)

	h.key("d")
	assert.Contains(t, h.view(), "Delete Space")
	assert.Contains(t, h.view(), "Hall A")

	h.key("y")
	_, open := h.model.spaces.ctrl.PendingDelete()
	assert.False(t, open)
	assert.Contains(t, h.model.spaces.ctrl.Notices().Error(), "500")
	assert.NotContains(t, h.view(), "Delete Space")
}

func TestDelete_SuccessRefreshes(t *testing.T) {
	h := newHarness(t, seedSpaces(resource.Space{Name: "Hall A", Location: "P1"}))
	h.key("d")
	h.key("enter")

	assert.Len(t, h.api.calls(http.MethodDelete), 1)
	assert.Equal(t, "Space deleted successfully", h.model.spaces.ctrl.Notices().Success())
	assert.Contains(t, h.view(), "No spaces found")
}

func TestDeleteOverlay_ClickOutsideDismisses(t *testing.T) {
	h := newHarness(t, seedSpaces(resource.Space{Name: "Hall A", Location: "P1"}))
	h.key("d")

	h.send(tea.MouseMsg{X: 80, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, open := h.model.spaces.ctrl.PendingDelete()
	assert.True(t, open, "click inside the box keeps it open")

	h.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, open = h.model.spaces.ctrl.PendingDelete()
	assert.False(t, open)
	assert.Empty(t, h.api.calls(http.MethodDelete))
}

func TestDeleteOverlay_StaysOpenWhileDeleting(t *testing.T) {
	h := newHarness(t, seedSpaces(resource.Space{Name: "Hall A", Location: "P1"}))
	h.key("d")

	// Hold the delete command so the request is still in flight.
	next, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	h.model = next.(Model)
	require.NotNil(t, cmd)

	h.key("esc")
	h.key("n")
	h.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, open := h.model.spaces.ctrl.PendingDelete()
	assert.True(t, open)

	h.run(cmd)
	_, open = h.model.spaces.ctrl.PendingDelete()
	assert.False(t, open)
	assert.Len(t, h.api.calls(http.MethodDelete), 1)
}

func TestQuitKeysIgnoredWhileTyping(t *testing.T) {
	h := newHarness(t, nil)
	h.key("n")
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}
	assert.Equal(t, "q", h.model.spaces.form.Values()["name"])

	_, cmd = h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTabsSwitchPanels(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, 0, h.model.active)
	h.key("2")
	assert.Equal(t, 1, h.model.active)
	h.key("1")
	assert.Equal(t, 0, h.model.active)
}

func TestCopy_PutsSelectedRecordOnClipboard(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	h := newHarness(t, seedSpaces(resource.Space{Name: "Hall A", Location: "P1", Capacity: 5, Price: 10, Available: true}))
	h.key("y")

	var got resource.Space
	require.NoError(t, json.Unmarshal([]byte(copied), &got))
	assert.Equal(t, "Hall A", got.Name)
	assert.Equal(t, "Space 1 copied to clipboard", h.model.spaces.ctrl.Notices().Success())
	require.Len(t, h.held, 1)

	h.send(h.held[0])
	assert.Empty(t, h.model.spaces.ctrl.Notices().Success())
}

func TestCopy_EmptyTableDoesNothing(t *testing.T) {
	called := false
	orig := writeClipboard
	writeClipboard = func(string) error { called = true; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	h := newHarness(t, nil)
	h.key("y")
	assert.False(t, called)
	assert.Empty(t, h.model.spaces.ctrl.Notices().Success())
}
