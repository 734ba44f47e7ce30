package chat

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Splitter cuts documents into overlapping chunks with recursive character splitting.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Split returns the chunks of all documents, numbered in order.
func (s *Splitter) Split(docs []Document) ([]Chunk, error) {
	var chunks []Chunk
	for _, d := range docs {
		parts, err := s.splitter.SplitText(d.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s page %d: %w", d.Source, d.Page, err)
		}
		for _, p := range parts {
			if strings.TrimSpace(p) == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				ID:      len(chunks),
				Source:  d.Source,
				Page:    d.Page,
				Content: p,
			})
		}
	}
	return chunks, nil
}
