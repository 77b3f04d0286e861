package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stencil/internal/models"
	"stencil/internal/pkg/errors"
	"stencil/internal/pkg/logger"
	"stencil/internal/ports"
)

// fakeStore is an in-memory ports.TemplateStore that records calls.
type fakeStore struct {
	rows        map[string]string
	insertCalls int
	findCalls   int
	insertErr   error
	findErr     error
	// dropAfterInsert simulates a read-back miss.
	dropAfterInsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]string)}
}

func (f *fakeStore) Provider() string { return "fake" }

func (f *fakeStore) Insert(ctx context.Context, id string, content string) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.rows[id]; ok {
		return ports.ErrDuplicateID
	}
	if !f.dropAfterInsert {
		f.rows[id] = content
	}
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*models.Template, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	content, ok := f.rows[id]
	if !ok {
		return nil, ports.ErrTemplateNotFound
	}
	return &models.Template{
		ID:        id,
		Content:   json.RawMessage(content),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

// fixedIDs returns the same id for every call.
type fixedIDs struct{ id string }

func (g fixedIDs) NewID() string { return g.id }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func strPtr(s string) *string { return &s }

func TestCreateStoresSanitizedContent(t *testing.T) {
	store := newFakeStore()
	svc := NewTemplates(store, fixedIDs{id: "9d7f3c4e-0000-4000-8000-000000000001"}, testLogger())

	tpl, err := svc.Create(context.Background(), nil, json.RawMessage(`{"a":1,"elementScript":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, "9d7f3c4e-0000-4000-8000-000000000001", tpl.ID)
	assert.Equal(t, `{"a":1}`, string(tpl.Content))
	assert.Equal(t, `{"a":1}`, store.rows[tpl.ID])
}

func TestCreateUsesCallerID(t *testing.T) {
	store := newFakeStore()
	svc := NewTemplates(store, fixedIDs{id: "should-not-be-used"}, testLogger())

	id := "5a2b0c71-4c1e-4af0-9a3b-0d9e8f7a6b5c"
	tpl, err := svc.Create(context.Background(), strPtr(id), json.RawMessage(`"x"`))
	require.NoError(t, err)
	assert.Equal(t, id, tpl.ID)
}

func TestCreateDuplicateID(t *testing.T) {
	store := newFakeStore()
	svc := NewTemplates(store, nil, testLogger())

	id := "5a2b0c71-4c1e-4af0-9a3b-0d9e8f7a6b5c"
	_, err := svc.Create(context.Background(), strPtr(id), json.RawMessage(`"x"`))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), strPtr(id), json.RawMessage(`"x"`))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestCreateGeneratedIDsDoNotCollide(t *testing.T) {
	store := newFakeStore()
	svc := NewTemplates(store, nil, testLogger())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tpl, err := svc.Create(context.Background(), nil, json.RawMessage(`"x"`))
		require.NoError(t, err)
		assert.False(t, seen[tpl.ID], "generated id collided: %s", tpl.ID)
		seen[tpl.ID] = true
	}
}

func TestCreateSizeCeiling(t *testing.T) {
	// A JSON string of n characters serializes to n+2 bytes.
	atLimit := `"` + strings.Repeat("a", MaxContentBytes-2) + `"`
	overLimit := `"` + strings.Repeat("a", MaxContentBytes-1) + `"`

	t.Run("exactly at the ceiling succeeds", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTemplates(store, nil, testLogger())

		tpl, err := svc.Create(context.Background(), nil, json.RawMessage(atLimit))
		require.NoError(t, err)
		assert.Len(t, string(tpl.Content), MaxContentBytes)
	})

	t.Run("one byte over fails and never reaches the store", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTemplates(store, nil, testLogger())

		_, err := svc.Create(context.Background(), nil, json.RawMessage(overLimit))
		require.Error(t, err)
		assert.True(t, errors.IsPayloadTooLarge(err))
		assert.Zero(t, store.insertCalls)
		assert.Zero(t, store.findCalls)
	})

	t.Run("ceiling is measured after sanitization", func(t *testing.T) {
		// Raw payload is over the ceiling, but stripping the banned key
		// brings it under.
		big := strings.Repeat("a", MaxContentBytes)
		raw := `{"keep":"small","elementScript":"` + big + `"}`

		store := newFakeStore()
		svc := NewTemplates(store, nil, testLogger())

		tpl, err := svc.Create(context.Background(), nil, json.RawMessage(raw))
		require.NoError(t, err)
		assert.Equal(t, `{"keep":"small"}`, string(tpl.Content))
	})
}

func TestCreateReadBackMiss(t *testing.T) {
	store := newFakeStore()
	store.dropAfterInsert = true
	svc := NewTemplates(store, nil, testLogger())

	_, err := svc.Create(context.Background(), nil, json.RawMessage(`"x"`))
	require.Error(t, err)
	assert.False(t, errors.IsConflict(err))
	assert.False(t, errors.IsPayloadTooLarge(err))
	assert.Contains(t, err.Error(), "failed to fetch inserted template")
	assert.Equal(t, 1, store.insertCalls)
	assert.Equal(t, 1, store.findCalls)
}

func TestCreateInsertFailure(t *testing.T) {
	store := newFakeStore()
	store.insertErr = context.DeadlineExceeded
	svc := NewTemplates(store, nil, testLogger())

	_, err := svc.Create(context.Background(), nil, json.RawMessage(`"x"`))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternal, errors.GetCode(err))
	assert.Zero(t, store.findCalls)
}

func TestCreateScrubInsideLeafStrings(t *testing.T) {
	store := newFakeStore()
	svc := NewTemplates(store, nil, testLogger())

	tpl, err := svc.Create(context.Background(), nil, json.RawMessage(`"<script>alert(1)</script>"`))
	require.NoError(t, err)
	assert.Equal(t, `"&lt;script&gt;alert(1)&lt;/script&gt;"`, string(tpl.Content))
}

func TestUUIDGenerator(t *testing.T) {
	gen := UUIDGenerator{}

	id1 := gen.NewID()
	id2 := gen.NewID()

	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 36)
}
