// Package redisstore implements the template store on Redis. SET NX is the
// atomic uniqueness primitive: a false reply means the key already exists.
package redisstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"stencil/internal/models"
	"stencil/internal/ports"
)

const keyPrefix = "template:"

// envelope is the persisted value. Content carries the sanitized text
// verbatim; the envelope itself is encoded without HTML escaping so the
// stored bytes survive a round trip untouched.
type envelope struct {
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Provider() string { return "redis" }

func (s *Store) Insert(ctx context.Context, id string, content string) error {
	env := envelope{
		Content:   json.RawMessage(content),
		CreatedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, keyPrefix+id, buf.Bytes(), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ports.ErrDuplicateID
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Template, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrTemplateNotFound
		}
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	return &models.Template{
		ID:        id,
		Content:   env.Content,
		CreatedAt: env.CreatedAt,
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
