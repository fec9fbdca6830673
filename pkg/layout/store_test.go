package layout

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/cache"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/observability"
)

type storeRecorder struct {
	observability.NoopStoreHooks

	mu     sync.Mutex
	events []string
}

func (r *storeRecorder) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *storeRecorder) OnStoreHit(_ context.Context, backend string)  { r.record("hit:" + backend) }
func (r *storeRecorder) OnStoreMiss(_ context.Context, backend string) { r.record("miss:" + backend) }
func (r *storeRecorder) OnStoreSet(_ context.Context, backend string, _ int) {
	r.record("set:" + backend)
}
func (r *storeRecorder) OnStoreError(_ context.Context, backend, op string, _ error) {
	r.record("error:" + backend + ":" + op)
}

func TestStore(t *testing.T) {
	requireT := require.New(t)
	ctx := context.Background()

	rec := &storeRecorder{}
	observability.SetStoreHooks(rec)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	requireT.NoError(err)
	s := NewStore(fc, nil, quiet.Logger)

	_, err = s.Load(ctx, "main")
	requireT.True(errors.Is(err, errors.ErrCodeNotFound))

	l := captured(t)
	requireT.NoError(s.Save(ctx, l))
	got, err := s.Load(ctx, "main")
	requireT.NoError(err)
	requireSameLayout(t, l, got)

	keys, err := fc.Keys()
	requireT.NoError(err)
	requireT.Equal([]string{"layout:main"}, keys)

	requireT.NoError(s.Delete(ctx, "main"))
	requireT.NoError(s.Delete(ctx, "main"))
	_, err = s.Load(ctx, "main")
	requireT.True(errors.Is(err, errors.ErrCodeNotFound))

	requireT.Equal([]string{"miss:file", "set:file", "hit:file", "miss:file"}, rec.events)
}

func TestStoreScopedKeys(t *testing.T) {
	requireT := require.New(t)
	ctx := context.Background()

	fc, err := cache.NewFileCache(t.TempDir())
	requireT.NoError(err)
	alice := NewStore(fc, cache.NewScopedKeyer(nil, "alice:"), quiet.Logger)
	bob := NewStore(fc, cache.NewScopedKeyer(nil, "bob:"), quiet.Logger)

	requireT.NoError(alice.Save(ctx, captured(t)))
	_, err = alice.Load(ctx, "main")
	requireT.NoError(err)
	_, err = bob.Load(ctx, "main")
	requireT.True(errors.Is(err, errors.ErrCodeNotFound))
}

func TestStoreInvalidName(t *testing.T) {
	requireT := require.New(t)
	ctx := context.Background()
	s := NewStore(nil, nil, quiet.Logger)

	l := captured(t)
	l.Name = "a/b"
	requireT.True(errors.Is(s.Save(ctx, l), errors.ErrCodeInvalidName))
	_, err := s.Load(ctx, "")
	requireT.True(errors.Is(err, errors.ErrCodeInvalidName))
	requireT.True(errors.Is(s.Delete(ctx, ".hidden"), errors.ErrCodeInvalidName))

	// The null backend keeps nothing.
	requireT.NoError(s.Save(ctx, captured(t)))
	_, err = s.Load(ctx, "main")
	requireT.True(errors.Is(err, errors.ErrCodeNotFound))
}

type failingCache struct{ cache.NullCache }

var errDown = stderrors.New("backend down")

func (failingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDown }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errDown
}

func TestStoreBackendErrors(t *testing.T) {
	requireT := require.New(t)
	ctx := context.Background()

	rec := &storeRecorder{}
	observability.SetStoreHooks(rec)
	t.Cleanup(observability.Reset)

	s := NewStore(&failingCache{}, nil, quiet.Logger)
	requireT.ErrorIs(s.Save(ctx, captured(t)), errDown)
	_, err := s.Load(ctx, "main")
	requireT.ErrorIs(err, errDown)
	requireT.Equal([]string{"error:custom:set", "error:custom:get"}, rec.events)

	// A stored layout that no longer decodes is reported as such.
	fc, err := cache.NewFileCache(t.TempDir())
	requireT.NoError(err)
	requireT.NoError(fc.Set(ctx, "layout:broken", []byte("{"), 0))
	_, err = NewStore(fc, nil, quiet.Logger).Load(ctx, "broken")
	requireT.True(errors.Is(err, errors.ErrCodeInvalidFormat))
}
