package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"stencil/internal/httpkit"
	"stencil/internal/pkg/errors"
	"stencil/internal/pkg/metrics"
)

type CreateTemplateRequest struct {
	ID      *string         `json:"id,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// FieldViolation is one entry of the details list on a 400 response.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (h *Handler) PostTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	var req CreateTemplateRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		// Malformed transport-level JSON is not a validation failure.
		log.LogError(ctx, "failed to parse request body", err)
		httpkit.WriteErr(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	if violations := validateCreate(req); len(violations) > 0 {
		log.Warn("template rejected by validation", "violations", violations)
		httpkit.WriteErr(w, http.StatusBadRequest, "Validation failed", violations)
		return
	}

	tpl, err := h.templates.Create(ctx, req.ID, req.Content)
	if err != nil {
		switch {
		case errors.IsConflict(err):
			log.Warn("duplicate template id", "error", err.Error())
			httpkit.WriteErr(w, http.StatusConflict, "Duplicate id", "Template with this id already exists")
		case errors.IsPayloadTooLarge(err):
			log.Warn("template content over size ceiling", "error", err.Error())
			httpkit.WriteErr(w, http.StatusRequestEntityTooLarge, "Payload too large", "content exceeds size limit")
		default:
			log.LogError(ctx, "template create failed", err)
			httpkit.WriteErr(w, http.StatusInternalServerError, "Internal server error", err.Error())
		}
		return
	}

	metrics.TemplatesCreated.Inc()
	httpkit.WriteJSON(w, http.StatusCreated, tpl)
}

// validateCreate checks the request shape: an optional canonical UUID id and
// a content value that is a JSON string, object, or array.
func validateCreate(req CreateTemplateRequest) []FieldViolation {
	var violations []FieldViolation

	if req.ID != nil && !isCanonicalUUID(*req.ID) {
		violations = append(violations, FieldViolation{
			Field:   "id",
			Message: "must be a valid uuid",
		})
	}

	content := bytes.TrimSpace(req.Content)
	if len(content) == 0 {
		violations = append(violations, FieldViolation{
			Field:   "content",
			Message: "content is required",
		})
		return violations
	}

	switch content[0] {
	case '"', '{', '[':
		// string, object, or array
	default:
		violations = append(violations, FieldViolation{
			Field:   "content",
			Message: "content must be a string, object, or array",
		})
	}

	return violations
}

// isCanonicalUUID accepts only the hyphenated 36-character form.
// uuid.Parse alone is too permissive (urn: prefix, braces, bare hex).
func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
