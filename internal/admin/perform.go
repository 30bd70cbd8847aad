package admin

import (
	"context"
	"fmt"

	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/resource"
)

// Perform executes op against res. It blocks until the request completes
// and never panics on an unknown op kind.
func Perform[R resource.Record](ctx context.Context, res api.Resource[R], op Op) Result[R] {
	out := Result[R]{Op: op}
	switch op.Kind {
	case OpList:
		out.Records, out.Err = res.List(ctx)
	case OpGet:
		rec, err := res.Get(ctx, op.ID)
		if err != nil {
			out.Err = err
			break
		}
		out.Records = []R{rec}
	case OpCreate:
		out.Err = res.Create(ctx, op.Payload)
	case OpUpdate:
		out.Err = res.Update(ctx, op.ID, op.Payload)
	case OpDelete:
		out.Err = res.Delete(ctx, op.ID)
	default:
		out.Err = fmt.Errorf("unsupported operation %v", op.Kind)
	}
	return out
}
