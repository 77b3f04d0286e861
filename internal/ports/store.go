package ports

import (
	"context"
	"errors"

	"stencil/internal/models"
)

var ErrDuplicateID = errors.New("template with this id already exists")
var ErrTemplateNotFound = errors.New("template not found")

// TemplateStore: implementations (postgres, redis, localfs).
//
// Insert must be atomic: concurrent inserts of the same id are resolved by
// the backend's own uniqueness primitive, never by a check-then-insert in
// the caller. A uniqueness violation is reported as ErrDuplicateID.
// FindByID must observe an insert performed immediately before it on the
// same connection/request.
type TemplateStore interface {
	Provider() string

	Insert(ctx context.Context, id string, content string) error
	FindByID(ctx context.Context, id string) (*models.Template, error)

	Ping(ctx context.Context) error
	Close() error
}
