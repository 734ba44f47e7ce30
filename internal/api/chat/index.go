package chat

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

type Chunk struct {
	ID      int
	Source  string
	Page    int
	Content string
}

type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Index is a flat cosine-similarity index. It is read-only once built.
type Index struct {
	Model   string
	chunks  []Chunk
	vectors [][]float32
	norms   []float64
}

// indexSnapshot is the on-disk gob form of an Index.
type indexSnapshot struct {
	Model   string
	Chunks  []Chunk
	Vectors [][]float32
}

func NewIndex(model string) *Index {
	return &Index{Model: model}
}

// Add stores chunks with their embeddings; both slices must have the same length.
func (idx *Index) Add(chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	for i := range chunks {
		idx.chunks = append(idx.chunks, chunks[i])
		idx.vectors = append(idx.vectors, vectors[i])
		idx.norms = append(idx.norms, norm(vectors[i]))
	}
	return nil
}

func (idx *Index) Len() int { return len(idx.chunks) }

// Search returns up to k chunks ordered by descending cosine similarity.
func (idx *Index) Search(query []float32, k int) []SearchResult {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil
	}
	qn := norm(query)
	results := make([]SearchResult, 0, len(idx.chunks))
	for i, v := range idx.vectors {
		results = append(results, SearchResult{
			Chunk: idx.chunks[i],
			Score: cosine(query, qn, v, idx.norms[i]),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results
}

func (idx *Index) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	snap := indexSnapshot{Model: idx.Model, Chunks: idx.chunks, Vectors: idx.vectors}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write index: %w", err)
	}
	return os.Rename(tmp, path)
}

func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer f.Close()

	var snap indexSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode index %s: %w", path, err)
	}
	idx := NewIndex(snap.Model)
	if err := idx.Add(snap.Chunks, snap.Vectors); err != nil {
		return nil, fmt.Errorf("corrupt index %s: %w", path, err)
	}
	return idx, nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (an * bn)
}
