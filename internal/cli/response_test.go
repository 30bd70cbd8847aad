package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/resource"
)

func TestWriteFailureEnvelope(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))

	app := &App{Output: "json"}
	err := writeFailure(cmd, app, "boom", errors.New("broken"), "fix it", map[string]any{"id": 3})
	if err == nil {
		t.Fatalf("expected error")
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		t.Fatalf("expected reportedError, got %T", err)
	}

	var env map[string]any
	if uerr := json.Unmarshal(out.Bytes(), &env); uerr != nil {
		t.Fatalf("unmarshal output: %v\n%s", uerr, out.String())
	}
	if env["ok"] != false {
		t.Fatalf("expected ok=false, got %#v", env["ok"])
	}
	e, ok := env["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %#v", env["error"])
	}
	if e["code"] != "boom" || e["message"] != "broken" {
		t.Fatalf("unexpected error object: %#v", e)
	}
	if env["hint"] != "fix it" {
		t.Fatalf("expected hint, got %#v", env["hint"])
	}
}

func TestWriteFailureText(t *testing.T) {
	cmd := &cobra.Command{}
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	_ = writeFailure(cmd, &App{Output: "text"}, "boom", errors.New("broken"), "", nil)
	if out.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", out.String())
	}
	if !bytes.Contains(errOut.Bytes(), []byte("Error: broken")) {
		t.Fatalf("expected error line on stderr, got %q", errOut.String())
	}
}

func TestFailureCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&resource.ValidationError{Field: "name", Message: "name is required"}, "invalid_input"},
		{&api.HTTPError{Status: 404, StatusText: "Not Found"}, "not_found"},
		{fmt.Errorf("wrapped: %w", &api.HTTPError{Status: 500}), "api_error"},
		{&api.TransportError{URL: "http://x", Err: errors.New("refused")}, "unreachable"},
		{errors.New("other"), "error"},
	}
	for _, tc := range cases {
		if got, _ := failureCode(tc.err); got != tc.want {
			t.Fatalf("failureCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
