package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docktree/pkg/cache"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/observability"
)

// Store keeps named layouts in a cache backend.
//
// Store holds no state besides its backend, so one Store can serve many
// goroutines.
type Store struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is passed to the backend on Save. Zero keeps layouts forever.
	TTL time.Duration
}

// NewStore creates a store over c.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (nothing is kept).
func NewStore(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Store {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{Cache: c, Keyer: keyer, Logger: logger}
}

// Save writes l under its name, replacing any layout of the same name.
func (s *Store) Save(ctx context.Context, l *Layout) error {
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}
	data, err := MarshalLayout(l)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout %q", l.Name)
	}
	backend := backendName(s.Cache)
	if err := s.Cache.Set(ctx, s.Keyer.LayoutKey(l.Name), data, s.TTL); err != nil {
		observability.Store().OnStoreError(ctx, backend, "set", err)
		return err
	}
	observability.Store().OnStoreSet(ctx, backend, len(data))
	s.Logger.Debug("saved layout", "layout", l.Name, "entries", len(l.Entries), "bytes", len(data), "backend", backend)
	return nil
}

// Load reads the layout stored under name. A missing layout is a NOT_FOUND
// error; a stored layout that no longer decodes is INVALID_FORMAT.
func (s *Store) Load(ctx context.Context, name string) (*Layout, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	backend := backendName(s.Cache)
	data, hit, err := s.Cache.Get(ctx, s.Keyer.LayoutKey(name))
	if err != nil {
		observability.Store().OnStoreError(ctx, backend, "get", err)
		return nil, err
	}
	if !hit {
		observability.Store().OnStoreMiss(ctx, backend)
		return nil, errors.New(errors.ErrCodeNotFound, "no layout named %q", name)
	}
	observability.Store().OnStoreHit(ctx, backend)

	l, err := UnmarshalLayout(data)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("loaded layout", "layout", name, "entries", len(l.Entries), "backend", backend)
	return l, nil
}

// Delete removes the layout stored under name. Deleting a missing layout is
// not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	if err := s.Cache.Delete(ctx, s.Keyer.LayoutKey(name)); err != nil {
		observability.Store().OnStoreError(ctx, backendName(s.Cache), "delete", err)
		return err
	}
	return nil
}

func backendName(c cache.Cache) string {
	switch c.(type) {
	case *cache.FileCache:
		return "file"
	case *cache.RedisCache:
		return "redis"
	case *cache.MongoCache:
		return "mongo"
	case *cache.NullCache:
		return "null"
	default:
		return "custom"
	}
}
