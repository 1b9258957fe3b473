package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ModelState describes the lifecycle of the shared embedding model.
// Transitions: Unloaded -> Loading -> {Ready | Failed}; Failed -> Loading on
// retry. Ready is terminal: a loaded model is never unloaded, and inference
// failures do not change the state.
type ModelState int

const (
	ModelUnloaded ModelState = iota
	ModelLoading
	ModelReady
	ModelFailed
)

// String returns the lowercase state name.
func (s ModelState) String() string {
	switch s {
	case ModelUnloaded:
		return "unloaded"
	case ModelLoading:
		return "loading"
	case ModelReady:
		return "ready"
	case ModelFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Model is a lazily loaded handle to an embedding backend. The model is an
// expensive shared resource: the first Initialize call starts the load and
// every concurrent caller awaits that same in-flight load instead of
// starting its own. Model implements Embedder, loading on first use.
//
// Construct one Model per process and pass the handle to whatever needs it.
type Model struct {
	load   LoadFunc
	logger *slog.Logger

	group singleflight.Group

	mu    sync.Mutex
	state ModelState
	inner Embedder
}

var _ Embedder = (*Model)(nil)

// ModelOption configures a Model.
type ModelOption func(*Model) error

// WithModelLogger sets a custom logger.
// Default is slog.Default().
func WithModelLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewModel creates an unloaded model handle. Nothing is loaded until
// Initialize or the first embedding call.
func NewModel(load LoadFunc, opts ...ModelOption) (*Model, error) {
	if load == nil {
		return nil, ErrLoadFuncRequired
	}

	m := &Model{
		load:   load,
		logger: slog.Default(),
		state:  ModelUnloaded,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// State returns the current lifecycle state.
func (m *Model) State() ModelState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Initialize loads the embedding backend if it is not loaded yet. It is
// idempotent: once the model is Ready, Initialize returns immediately, and
// concurrent callers during Loading all await the same load. A Failed model
// may be retried by calling Initialize again.
//
// Returns ErrModelUnavailable (wrapping the cause) when the backend cannot
// be loaded.
func (m *Model) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.state == ModelReady {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	_, err, _ := m.group.Do("load", func() (any, error) {
		m.mu.Lock()
		if m.state == ModelReady {
			m.mu.Unlock()
			return nil, nil
		}
		m.state = ModelLoading
		m.mu.Unlock()

		m.logger.Info("loading embedding model")

		// The load is shared by every caller that joined this flight, so it
		// must not die with the first caller's context.
		inner, err := m.load(context.WithoutCancel(ctx))

		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil {
			m.state = ModelFailed
			m.logger.Error("embedding model failed to load", "err", err)
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		m.inner = inner
		m.state = ModelReady
		m.logger.Info("embedding model ready")
		return nil, nil
	})
	return err
}

// EmbedText generates an embedding for a single text, loading the model
// first if needed. Load and inference failures are both reported as
// ErrModelUnavailable; an inference failure leaves a Ready model Ready.
func (m *Model) EmbedText(ctx context.Context, text string) ([]float32, error) {
	inner, err := m.ready(ctx)
	if err != nil {
		return nil, err
	}

	vec, err := inner.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return vec, nil
}

// EmbedTexts generates embeddings for multiple texts in a batch, loading the
// model first if needed.
func (m *Model) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	inner, err := m.ready(ctx)
	if err != nil {
		return nil, err
	}

	vecs, err := inner.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return vecs, nil
}

func (m *Model) ready(ctx context.Context) (Embedder, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner, nil
}
