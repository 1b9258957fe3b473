package ai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder is a minimal in-package Embedder for lifecycle tests.
// The full-featured mock lives in ai/mock, which cannot be imported here.
type stubEmbedder struct {
	embedErr error
	calls    atomic.Int64
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.calls.Add(1)
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls.Add(1)
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, nil
}

func TestNewModel(t *testing.T) {
	t.Run("nil load func", func(t *testing.T) {
		_, err := NewModel(nil)
		assert.Equal(t, ErrLoadFuncRequired, err)
	})

	t.Run("starts unloaded", func(t *testing.T) {
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			return &stubEmbedder{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, ModelUnloaded, model.State())
	})
}

func TestModelInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("success transitions to ready", func(t *testing.T) {
		var loads atomic.Int64
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			loads.Add(1)
			return &stubEmbedder{}, nil
		})
		require.NoError(t, err)

		require.NoError(t, model.Initialize(ctx))
		assert.Equal(t, ModelReady, model.State())
		assert.Equal(t, int64(1), loads.Load())
	})

	t.Run("idempotent once ready", func(t *testing.T) {
		var loads atomic.Int64
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			loads.Add(1)
			return &stubEmbedder{}, nil
		})
		require.NoError(t, err)

		require.NoError(t, model.Initialize(ctx))
		require.NoError(t, model.Initialize(ctx))
		require.NoError(t, model.Initialize(ctx))
		assert.Equal(t, int64(1), loads.Load())
	})

	t.Run("failure transitions to failed", func(t *testing.T) {
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			return nil, errors.New("connection refused")
		})
		require.NoError(t, err)

		err = model.Initialize(ctx)
		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.Equal(t, ModelFailed, model.State())
	})

	t.Run("failed model can retry", func(t *testing.T) {
		var loads atomic.Int64
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			if loads.Add(1) == 1 {
				return nil, errors.New("transient failure")
			}
			return &stubEmbedder{}, nil
		})
		require.NoError(t, err)

		require.ErrorIs(t, model.Initialize(ctx), ErrModelUnavailable)
		assert.Equal(t, ModelFailed, model.State())

		require.NoError(t, model.Initialize(ctx))
		assert.Equal(t, ModelReady, model.State())
		assert.Equal(t, int64(2), loads.Load())
	})

	t.Run("concurrent callers share one load", func(t *testing.T) {
		var loads atomic.Int64
		release := make(chan struct{})
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			loads.Add(1)
			<-release
			return &stubEmbedder{}, nil
		})
		require.NoError(t, err)

		const callers = 16
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = model.Initialize(ctx)
			}(i)
		}

		close(release)
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, int64(1), loads.Load())
		assert.Equal(t, ModelReady, model.State())
	})
}

func TestModelEmbedText(t *testing.T) {
	ctx := context.Background()

	t.Run("loads on first use", func(t *testing.T) {
		stub := &stubEmbedder{}
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			return stub, nil
		})
		require.NoError(t, err)
		assert.Equal(t, ModelUnloaded, model.State())

		vec, err := model.EmbedText(ctx, "hello")
		require.NoError(t, err)
		assert.NotEmpty(t, vec)
		assert.Equal(t, ModelReady, model.State())
	})

	t.Run("load failure reported as model unavailable", func(t *testing.T) {
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			return nil, errors.New("no network")
		})
		require.NoError(t, err)

		_, err = model.EmbedText(ctx, "hello")
		assert.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("inference failure keeps model ready", func(t *testing.T) {
		stub := &stubEmbedder{embedErr: errors.New("backend 500")}
		model, err := NewModel(func(ctx context.Context) (Embedder, error) {
			return stub, nil
		})
		require.NoError(t, err)

		_, err = model.EmbedText(ctx, "hello")
		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.Equal(t, ModelReady, model.State())
	})
}

func TestModelStateString(t *testing.T) {
	assert.Equal(t, "unloaded", ModelUnloaded.String())
	assert.Equal(t, "loading", ModelLoading.String())
	assert.Equal(t, "ready", ModelReady.String())
	assert.Equal(t, "failed", ModelFailed.String())
	assert.Equal(t, "unknown", ModelState(42).String())
}
