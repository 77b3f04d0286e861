package handlers

import (
	"stencil/internal/pkg/logger"
	"stencil/internal/ports"
	"stencil/internal/service"
)

type Deps struct {
	Store ports.TemplateStore
	Log   *logger.Logger
	// IDs is optional; nil means random v4 UUIDs.
	IDs service.IDGenerator
}

type Handler struct {
	store     ports.TemplateStore
	templates *service.Templates
	log       *logger.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		store:     d.Store,
		templates: service.NewTemplates(d.Store, d.IDs, d.Log),
		log:       d.Log,
	}
}
