package chat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-vegan-diet-assistant/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/generative_ai"
)

const (
	defaultEmbedBatch  = 50
	maxParallelBatches = 4
)

// Embedder turns texts into vectors. taskType is a retrieval task hint.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

type IndexOptions struct {
	DocumentsPath string
	IndexPath     string
	ChunkSize     int
	ChunkOverlap  int
	EmbedBatch    int
	Model         string
	Force         bool
}

// BuildOrLoadIndex loads the snapshot at IndexPath when it exists, otherwise
// embeds the document folder and saves a new snapshot. An empty corpus still
// produces a saved, empty index.
func BuildOrLoadIndex(ctx context.Context, opts IndexOptions, embedder Embedder, logger *slog.Logger) (*Index, error) {
	ctx, span := otel.Tracer("ChatIndex").Start(ctx, "BuildOrLoadIndex", trace.WithAttributes(
		attribute.String("index.path", opts.IndexPath),
		attribute.Bool("index.force", opts.Force),
	))
	defer span.End()
	l := logger.With(slog.String("method", "BuildOrLoadIndex"))

	if !opts.Force {
		idx, err := LoadIndex(opts.IndexPath)
		if err == nil {
			if opts.Model != "" && idx.Model != opts.Model {
				l.WarnContext(ctx, "Index was built with another embedding model",
					slog.String("index_model", idx.Model), slog.String("configured_model", opts.Model))
			}
			l.InfoContext(ctx, "Loaded vector index", slog.Int("chunks", idx.Len()))
			span.SetStatus(codes.Ok, "Index loaded")
			return idx, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to load index")
			return nil, err
		}
	}

	docs, err := LoadDocuments(opts.DocumentsPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load documents")
		return nil, err
	}
	chunks, err := NewSplitter(opts.ChunkSize, opts.ChunkOverlap).Split(docs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to split documents")
		return nil, err
	}
	l.InfoContext(ctx, "Embedding document chunks", slog.Int("documents", len(docs)), slog.Int("chunks", len(chunks)))

	vectors, err := embedChunks(ctx, embedder, chunks, opts.EmbedBatch)
	if err != nil {
		l.ErrorContext(ctx, "Failed to embed chunks", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to embed chunks")
		return nil, err
	}

	idx := NewIndex(opts.Model)
	if err := idx.Add(chunks, vectors); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build index")
		return nil, err
	}
	if err := idx.Save(opts.IndexPath); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save index")
		return nil, fmt.Errorf("failed to save index: %w", err)
	}
	metrics.Get().IndexChunksTotal.Add(ctx, int64(idx.Len()))

	l.InfoContext(ctx, "Built vector index", slog.Int("chunks", idx.Len()), slog.String("path", opts.IndexPath))
	span.SetAttributes(attribute.Int("index.chunks", idx.Len()))
	span.SetStatus(codes.Ok, "Index built")
	return idx, nil
}

func embedChunks(ctx context.Context, embedder Embedder, chunks []Chunk, batch int) ([][]float32, error) {
	if batch <= 0 {
		batch = defaultEmbedBatch
	}
	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelBatches)
	for start := 0; start < len(chunks); start += batch {
		end := min(start+batch, len(chunks))
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Content)
			}
			out, err := embedder.EmbedTexts(gctx, texts, generativeAI.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("batch %d-%d: %w", start, end, err)
			}
			if len(out) != len(texts) {
				return fmt.Errorf("batch %d-%d: got %d embeddings", start, end, len(out))
			}
			copy(vectors[start:end], out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// LazyIndex builds the index once, in the background. Callers wait for the
// build only as long as their own context allows; the build itself is not
// bound to any caller's deadline. A failed build is retried on the next call.
type LazyIndex struct {
	mu      sync.Mutex
	idx     *Index
	build   func(ctx context.Context) (*Index, error)
	current *indexBuild
}

type indexBuild struct {
	done chan struct{}
	idx  *Index
	err  error
}

func NewLazyIndex(build func(ctx context.Context) (*Index, error)) *LazyIndex {
	return &LazyIndex{build: build}
}

// StaticIndex wraps an already built index.
func StaticIndex(idx *Index) *LazyIndex {
	return &LazyIndex{idx: idx}
}

// Start begins building the index without waiting for it.
func (l *LazyIndex) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idx == nil && l.build != nil {
		l.startLocked(ctx)
	}
}

func (l *LazyIndex) startLocked(ctx context.Context) *indexBuild {
	if l.current != nil {
		return l.current
	}
	b := &indexBuild{done: make(chan struct{})}
	l.current = b
	go func() {
		idx, err := l.build(ctx)
		l.mu.Lock()
		if err == nil {
			l.idx = idx
		}
		l.current = nil
		l.mu.Unlock()
		b.idx, b.err = idx, err
		close(b.done)
	}()
	return b
}

func (l *LazyIndex) Get(ctx context.Context) (*Index, error) {
	l.mu.Lock()
	if l.idx != nil {
		idx := l.idx
		l.mu.Unlock()
		return idx, nil
	}
	if l.build == nil {
		l.mu.Unlock()
		return nil, errors.New("vector index is not configured")
	}
	b := l.startLocked(context.WithoutCancel(ctx))
	l.mu.Unlock()

	select {
	case <-b.done:
		return b.idx, b.err
	case <-ctx.Done():
		return nil, fmt.Errorf("vector index still building: %w", ctx.Err())
	}
}

// IndexExists reports whether a snapshot file is present at path.
func IndexExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
