// Package storage keeps a history of resolved pipelines in a NATS KV bucket.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/nlu/events"
)

// DefaultBucket holds resolved pipeline summaries keyed by pipeline ID.
const DefaultBucket = "NLU_PIPELINES"

// Bucket is the subset of jetstream.KeyValue the store uses.
type Bucket interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// Store records resolved pipelines. It satisfies events.Publisher so it can sit
// next to the NATS publisher.
type Store struct {
	kv Bucket
}

// NewStore opens bucket on js, creating it if it doesn't exist.
// An empty bucket name uses DefaultBucket.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("open %s bucket: %w", bucket, err)
	}
	return NewStoreWithBucket(kv), nil
}

// NewStoreWithBucket creates a store on an already opened bucket.
func NewStoreWithBucket(kv Bucket) *Store {
	return &Store{kv: kv}
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Resolved nlu pipelines",
		History:     1,
	})
}

// Save stores p under its ID, replacing any earlier revision.
func (s *Store) Save(ctx context.Context, p *events.PipelineResolved) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := validateID(p.ID); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal resolution: %w", err)
	}
	if _, err := s.kv.Put(ctx, p.ID, data); err != nil {
		return fmt.Errorf("store resolution %s: %w", p.ID, err)
	}
	return nil
}

// PublishResolved saves p.
func (s *Store) PublishResolved(ctx context.Context, p *events.PipelineResolved) error {
	return s.Save(ctx, p)
}

// Get retrieves the resolution stored under id.
func (s *Store) Get(ctx context.Context, id string) (*events.PipelineResolved, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	entry, err := s.kv.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get resolution %s: %w", id, err)
	}

	var p events.PipelineResolved
	if err := json.Unmarshal(entry.Value(), &p); err != nil {
		return nil, fmt.Errorf("unmarshal resolution %s: %w", id, err)
	}
	return &p, nil
}

// List returns stored resolutions, newest first. An empty ref lists all of them;
// otherwise only resolutions whose ref or key equals ref are returned.
func (s *Store) List(ctx context.Context, ref string) ([]*events.PipelineResolved, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list resolution keys: %w", err)
	}

	out := make([]*events.PipelineResolved, 0, len(keys))
	for _, key := range keys {
		p, err := s.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		if ref != "" && p.Ref != ref && p.Key != ref {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b *events.PipelineResolved) int {
		if c := b.ResolvedAt.Compare(a.ResolvedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// validateID accepts the UUIDs pipelines are identified by.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}
