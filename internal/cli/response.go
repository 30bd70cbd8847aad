package cli

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/format"
	"github.com/csrent/csrent-cli/internal/resource"
)

// reportedError marks an error whose details were already written to the
// command output.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func writeData(cmd *cobra.Command, app *App, meta map[string]any, data any) error {
	out := map[string]any{
		"ok":   true,
		"meta": meta,
		"data": data,
	}
	// Avoid emitting empty meta.
	if meta == nil {
		delete(out, "meta")
	}
	return writeOut(cmd, app, out)
}

// writeDone reports a successful mutation: a green line on stderr in text
// mode, an envelope on stdout otherwise.
func writeDone(cmd *cobra.Command, app *App, message string, data map[string]any) error {
	if app.Output == format.Text {
		color.New(color.FgGreen).Fprintln(cmd.ErrOrStderr(), "✓ "+message)
		return nil
	}
	if data == nil {
		data = map[string]any{}
	}
	data["message"] = message
	return writeData(cmd, app, nil, data)
}

func writeFailure(cmd *cobra.Command, app *App, code string, err error, hint string, details any) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	if app.Output == format.Text {
		w := cmd.ErrOrStderr()
		color.New(color.FgRed).Fprintln(w, "Error: "+err.Error())
		if hint != "" {
			color.New(color.FgYellow).Fprintln(w, "Hint: "+hint)
		}
		return &reportedError{err: err}
	}
	out := map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    code,
			"message": err.Error(),
			"details": details,
		},
	}
	if hint != "" {
		out["hint"] = hint
	}
	// We still return an error so Cobra exits non-zero.
	_ = writeOut(cmd, app, out)
	return &reportedError{err: err}
}

// failureCode classifies err for the failure envelope and returns any
// details worth including.
func failureCode(err error) (string, map[string]any) {
	var verr *resource.ValidationError
	if errors.As(err, &verr) {
		return "invalid_input", map[string]any{"field": verr.Field}
	}
	var herr *api.HTTPError
	if errors.As(err, &herr) {
		details := map[string]any{"status": herr.Status}
		if herr.Body != "" {
			details["body"] = herr.Body
		}
		if herr.Status == 404 {
			return "not_found", details
		}
		return "api_error", details
	}
	var terr *api.TransportError
	if errors.As(err, &terr) {
		return "unreachable", map[string]any{"url": terr.URL}
	}
	return "error", nil
}

func hintFor(code string) string {
	switch code {
	case "unreachable":
		return "Check --api-url (or `csrent config set api-url <url>`)."
	case "not_found":
		return "List the available ids with the list command."
	}
	return ""
}

// writeOpFailure reports err using message as the user-facing text.
func writeOpFailure(cmd *cobra.Command, app *App, message string, err error) error {
	code, details := failureCode(err)
	if message == "" {
		message = err.Error()
	}
	return writeFailure(cmd, app, code, errors.New(message), hintFor(code), details)
}
