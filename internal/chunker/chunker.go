// Package chunker splits documents into overlapping text windows for indexing.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goalsmith/goalsmith/internal/models"
)

// defaultSeparators is the split priority: paragraph breaks, line breaks,
// sentence ends, whitespace, then raw character cuts. A coarser separator is
// only used when the finer one cannot produce a piece within the chunk size.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits text into overlapping character-window chunks along natural
// boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
// Overlap is clamped below chunkSize.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// ChunkDocuments splits each document into chunks. Every chunk carries the
// document's source label and metadata plus its own text. A document shorter
// than the chunk size yields exactly one chunk; empty text yields none.
func (c *Chunker) ChunkDocuments(docs []models.Document) []models.Chunk {
	var chunks []models.Chunk
	for _, doc := range docs {
		for _, text := range c.Split(doc.Text) {
			meta := make(map[string]string, len(doc.Metadata))
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			chunks = append(chunks, models.Chunk{
				ID:       uuid.New().String(),
				Text:     text,
				Source:   doc.Source,
				Metadata: meta,
			})
		}
	}
	return chunks
}

// Split splits text into pieces of at most chunkSize characters, adjacent
// pieces overlapping by roughly the configured overlap.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	pieces := c.split(text, defaultSeparators)
	out := pieces[:0]
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Chunker) split(text string, seps []string) []string {
	if len(text) <= c.chunkSize {
		return []string{text}
	}
	sep := seps[0]
	rest := seps[1:]
	if sep == "" {
		return c.hardSplit(text)
	}
	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, p := range parts {
		// Keep the separator attached so boundary context survives.
		if i < len(parts)-1 {
			p += sep
		}
		if p == "" {
			continue
		}
		pieces = append(pieces, p)
	}
	return c.merge(pieces, rest)
}

// merge packs pieces into chunks of at most chunkSize characters, carrying a
// tail of up to overlap characters from one chunk into the next. Pieces that
// alone exceed the chunk size are split recursively with the remaining,
// coarser separators.
func (c *Chunker) merge(pieces []string, rest []string) []string {
	var chunks []string
	var buf []string
	bufLen := 0

	flush := func(keepOverlap bool) {
		if bufLen == 0 {
			return
		}
		chunks = append(chunks, strings.Join(buf, ""))
		if !keepOverlap {
			buf = nil
			bufLen = 0
			return
		}
		var tail []string
		tailLen := 0
		for i := len(buf) - 1; i >= 0; i-- {
			if tailLen+len(buf[i]) > c.overlap {
				break
			}
			tail = append([]string{buf[i]}, tail...)
			tailLen += len(buf[i])
		}
		buf = tail
		bufLen = tailLen
	}

	for _, p := range pieces {
		if len(p) > c.chunkSize {
			flush(false)
			chunks = append(chunks, c.split(p, rest)...)
			continue
		}
		if bufLen > 0 && bufLen+len(p) > c.chunkSize {
			flush(true)
			if bufLen+len(p) > c.chunkSize {
				// The overlap tail alone does not leave room; start fresh.
				buf = nil
				bufLen = 0
			}
		}
		buf = append(buf, p)
		bufLen += len(p)
	}
	flush(false)
	return chunks
}

// hardSplit cuts text into fixed windows with character overlap. Last resort
// when no separator fits.
func (c *Chunker) hardSplit(text string) []string {
	step := c.chunkSize - c.overlap
	if step <= 0 {
		step = 1
	}
	var out []string
	for start := 0; start < len(text); start += step {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		out = append(out, text[start:end])
		if end == len(text) {
			break
		}
	}
	return out
}
