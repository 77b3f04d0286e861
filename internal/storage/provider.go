package storage

import "stencil/internal/ports"

// Store is the persistence contract used across the API.
// It is an alias to ports.TemplateStore to keep call-sites simple.
type Store = ports.TemplateStore
