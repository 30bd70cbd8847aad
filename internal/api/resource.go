package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/csrent/csrent-cli/internal/resource"
)

// Resource exposes the five CRUD calls for one collection path such as
// "/space". R is the record type decoded from responses.
type Resource[R resource.Record] struct {
	Client Client
	Path   string
}

func NewResource[R resource.Record](c Client, k resource.Kind) Resource[R] {
	return Resource[R]{Client: c, Path: k.Path}
}

func (r Resource[R]) item(id resource.ID) string {
	return strings.TrimRight(r.Path, "/") + "/" + id.String()
}

// List issues GET {path}. A null body decodes to an empty slice.
func (r Resource[R]) List(ctx context.Context) ([]R, error) {
	var out []R
	if err := r.Client.Do(ctx, http.MethodGet, r.Path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []R{}
	}
	return out, nil
}

func (r Resource[R]) Get(ctx context.Context, id resource.ID) (R, error) {
	var out R
	err := r.Client.Do(ctx, http.MethodGet, r.item(id), nil, &out)
	return out, err
}

// Create posts payload. The response body is ignored.
func (r Resource[R]) Create(ctx context.Context, payload any) error {
	return r.Client.Do(ctx, http.MethodPost, r.Path, payload, nil)
}

func (r Resource[R]) Update(ctx context.Context, id resource.ID, payload any) error {
	return r.Client.Do(ctx, http.MethodPut, r.item(id), payload, nil)
}

func (r Resource[R]) Delete(ctx context.Context, id resource.ID) error {
	return r.Client.Do(ctx, http.MethodDelete, r.item(id), nil, nil)
}
