package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csrent/csrent-cli/internal/admin"
	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/format"
	"github.com/csrent/csrent-cli/internal/resource"
)

func newSpacesCmd(app *App) *cobra.Command {
	return newResourceCmd[resource.Space](app, resource.Spaces)
}

func newUsersCmd(app *App) *cobra.Command {
	return newResourceCmd[resource.User](app, resource.Users)
}

// resourceCmds drives one controller per invocation, the same state machine
// the TUI panels use, and performs its ops synchronously.
type resourceCmds[R resource.Record] struct {
	app    *App
	schema resource.Schema[R]
}

func newResourceCmd[R resource.Record](app *App, schema resource.Schema[R]) *cobra.Command {
	k := schema.Kind()
	rc := &resourceCmds[R]{app: app, schema: schema}
	cmd := &cobra.Command{
		Use:     k.Plural,
		Aliases: []string{k.Name},
		Short:   fmt.Sprintf("List, create, update and delete %s", k.Plural),
	}
	cmd.AddCommand(rc.listCmd())
	cmd.AddCommand(rc.getCmd())
	cmd.AddCommand(rc.createCmd())
	cmd.AddCommand(rc.updateCmd())
	cmd.AddCommand(rc.deleteCmd())
	return cmd
}

type session[R resource.Record] struct {
	ctrl *admin.Controller[R]
	res  api.Resource[R]
}

func (rc *resourceCmds[R]) session() *session[R] {
	return &session[R]{
		ctrl: admin.New[R](rc.schema, rc.app.Logger),
		res:  api.NewResource[R](rc.app.client(), rc.schema.Kind()),
	}
}

// run performs op and folds the result into the controller. Follow-up
// refreshes are not needed outside the TUI and are dropped.
func (s *session[R]) run(ctx context.Context, op admin.Op) error {
	res := admin.Perform(ctx, s.res, op)
	s.ctrl.Apply(res)
	return res.Err
}

func (s *session[R]) fail(cmd *cobra.Command, app *App, err error) error {
	return writeOpFailure(cmd, app, s.ctrl.Notices().Error(), err)
}

func (rc *resourceCmds[R]) listCmd() *cobra.Command {
	k := rc.schema.Kind()
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all " + k.Plural,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rc.session()
			if err := s.run(cmd.Context(), s.ctrl.Load()); err != nil {
				return s.fail(cmd, rc.app, err)
			}
			return rc.writeRecords(cmd, s.ctrl.Records())
		},
	}
}

func (rc *resourceCmds[R]) getCmd() *cobra.Command {
	k := rc.schema.Kind()
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s by id", k.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rc.session()
			op, err := s.ctrl.Search(args[0])
			if err != nil {
				return s.fail(cmd, rc.app, err)
			}
			if err := s.run(cmd.Context(), op); err != nil {
				return s.fail(cmd, rc.app, err)
			}
			return rc.writeRecords(cmd, s.ctrl.Records())
		},
	}
}

func (rc *resourceCmds[R]) createCmd() *cobra.Command {
	k := rc.schema.Kind()
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + k.Name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rc.session()
			values, err := rc.overlayFlags(cmd, resource.ModeCreate, resource.Form{})
			if err != nil {
				return writeOpFailure(cmd, rc.app, "", err)
			}
			op, err := s.ctrl.Submit(values)
			if err != nil {
				return s.fail(cmd, rc.app, err)
			}
			if err := s.run(cmd.Context(), op); err != nil {
				return s.fail(cmd, rc.app, err)
			}
			return writeDone(cmd, rc.app, s.ctrl.Notices().Success(), nil)
		},
	}
	rc.addFieldFlags(cmd, resource.ModeCreate)
	return cmd
}

func (rc *resourceCmds[R]) updateCmd() *cobra.Command {
	k := rc.schema.Kind()
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; fields without a flag keep their current value", k.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rc.session()
			op, err := s.ctrl.Search(args[0])
			if err != nil {
				return s.fail(cmd, rc.app, err)
			}
			if err := s.run(cmd.Context(), op); err != nil {
				return s.fail(cmd, rc.app, err)
			}
			if !s.ctrl.BeginEdit(op.ID) {
				return writeFailure(cmd, rc.app, "not_found",
					fmt.Errorf("%s %s not found", k.Name, op.ID), hintFor("not_found"), nil)
			}

			current := resource.Form{}
			for name, v := range s.ctrl.Form() {
				current[name] = v
			}
			values, err := rc.overlayFlags(cmd, resource.ModeUpdate, current)
			if err != nil {
				return writeOpFailure(cmd, rc.app, "", err)
			}
			op, err = s.ctrl.Submit(values)
			if err != nil {
				return s.fail(cmd, rc.app, err)
			}
			if err := s.run(cmd.Context(), op); err != nil {
				return s.fail(cmd, rc.app, err)
			}
			return writeDone(cmd, rc.app, s.ctrl.Notices().Success(), map[string]any{"id": op.ID})
		},
	}
	rc.addFieldFlags(cmd, resource.ModeUpdate)
	return cmd
}

func (rc *resourceCmds[R]) deleteCmd() *cobra.Command {
	k := rc.schema.Kind()
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a " + k.Name,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resource.ParseID(args[0])
			if err != nil {
				return writeOpFailure(cmd, rc.app, "", err)
			}
			if !yes {
				return writeFailure(cmd, rc.app, "confirmation_required",
					fmt.Errorf("refusing to delete %s %s without confirmation", k.Name, id),
					"Re-run with --yes.", map[string]any{"id": id})
			}
			s := rc.session()
			s.ctrl.RequestDelete(id)
			op, ok := s.ctrl.ConfirmDelete()
			if !ok {
				return writeFailure(cmd, rc.app, "error", errors.New("delete is not pending"), "", nil)
			}
			if err := s.run(cmd.Context(), op); err != nil {
				return s.fail(cmd, rc.app, err)
			}
			return writeDone(cmd, rc.app, s.ctrl.Notices().Success(), map[string]any{"id": id})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func (rc *resourceCmds[R]) addFieldFlags(cmd *cobra.Command, mode resource.Mode) {
	for _, f := range rc.schema.Fields(mode) {
		usage := f.Label
		if len(f.Options) > 0 {
			usage += " (" + optionLabels(f.Options) + ")"
		}
		if f.Placeholder != "" {
			usage += "; " + strings.ToLower(f.Placeholder[:1]) + f.Placeholder[1:]
		}
		cmd.Flags().String(f.Name, "", usage)
	}
}

// overlayFlags copies every flag the user set onto base. Option fields
// accept either the stored value or its label.
func (rc *resourceCmds[R]) overlayFlags(cmd *cobra.Command, mode resource.Mode, base resource.Form) (resource.Form, error) {
	for _, f := range rc.schema.Fields(mode) {
		flag := cmd.Flags().Lookup(f.Name)
		if flag == nil || !flag.Changed {
			continue
		}
		v := flag.Value.String()
		if len(f.Options) > 0 {
			resolved, ok := resolveOption(f.Options, v)
			if !ok {
				return nil, &resource.ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s must be one of %s", f.Name, optionLabels(f.Options)),
				}
			}
			v = resolved
		}
		base[f.Name] = v
	}
	return base, nil
}

func resolveOption(opts []resource.Option, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, o := range opts {
		if raw == o.Value || strings.EqualFold(raw, o.Label) {
			return o.Value, true
		}
	}
	return "", false
}

func optionLabels(opts []resource.Option) string {
	labels := make([]string, 0, len(opts))
	for _, o := range opts {
		labels = append(labels, o.Label)
	}
	return strings.Join(labels, ", ")
}

func (rc *resourceCmds[R]) writeRecords(cmd *cobra.Command, records []R) error {
	if rc.app.Output == format.Text {
		out := format.RenderTable(
			rc.schema.Columns(),
			resource.Rows(rc.schema, records),
			format.DefaultTableStyles(),
			format.TableView{Cursor: -1},
		)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	if records == nil {
		records = []R{}
	}
	meta := map[string]any{
		"resource": rc.schema.Kind().Plural,
		"count":    len(records),
	}
	return writeData(cmd, rc.app, meta, records)
}
