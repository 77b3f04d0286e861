// Package service implements the template write pipeline: sanitize the
// validated content, gate it on the size ceiling, resolve the identifier,
// insert, and read the stored row back for confirmation.
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"stencil/internal/models"
	"stencil/internal/pkg/errors"
	"stencil/internal/pkg/logger"
	"stencil/internal/ports"
	"stencil/internal/sanitize"
)

// MaxContentBytes is the ceiling for sanitized, serialized content. 900 KiB,
// leaving headroom under the 1 MiB hard platform limit. Measured on the
// exact bytes that go to the store, after both sanitization passes.
const MaxContentBytes = 900 * 1024

// IDGenerator produces new template identifiers. Injected so tests can
// substitute a deterministic generator.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random v4 UUIDs in canonical text form.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type Templates struct {
	store ports.TemplateStore
	ids   IDGenerator
	log   *logger.Logger
}

func NewTemplates(store ports.TemplateStore, ids IDGenerator, log *logger.Logger) *Templates {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Templates{
		store: store,
		ids:   ids,
		log:   log.WithComponent("templates"),
	}
}

// Create runs the full pipeline for one template and returns the stored row.
// Every failure is terminal for the request: no retries, no identifier
// regeneration on duplicate.
func (s *Templates) Create(ctx context.Context, id *string, content json.RawMessage) (*models.Template, error) {
	sanitized, err := sanitize.Content(content)
	if err != nil {
		// Content was validated upstream, so this never fires for a request
		// that passed validation.
		return nil, errors.Wrap(err, "template.create", "failed to sanitize content")
	}

	if len(sanitized) > MaxContentBytes {
		return nil, errors.PayloadTooLarge("content exceeds size limit").
			WithField("size_bytes", len(sanitized))
	}

	resolved := ""
	if id != nil {
		resolved = *id
	} else {
		resolved = s.ids.NewID()
	}

	ctx = logger.ContextWithTemplateID(ctx, resolved)

	if err := s.store.Insert(ctx, resolved, sanitized); err != nil {
		if errors.Is(err, ports.ErrDuplicateID) {
			return nil, errors.WrapWithCode(err, errors.CodeAlreadyExists,
				"template.create", "template id already exists").
				WithField("id", resolved)
		}
		return nil, errors.Wrap(err, "template.create", "store insert failed")
	}

	// The insert does not return the full stored row, and the contract is
	// the canonical stored representation, not an acknowledgement. A miss
	// here is an invariant violation: the row was just written.
	tpl, err := s.store.FindByID(ctx, resolved)
	if err != nil {
		return nil, errors.Wrap(err, "template.create", "failed to fetch inserted template")
	}

	s.log.FromContext(ctx).Info("template created",
		"id", tpl.ID,
		"size_bytes", len(sanitized),
		"store", s.store.Provider(),
	)
	return tpl, nil
}
