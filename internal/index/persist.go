package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/goalsmith/goalsmith/internal/models"
)

// Save persists the index as two artifacts: vectors at vectorPath
// (little-endian binary: dimensions, count, then count*dimensions float32s)
// and chunk metadata at metaPath (JSON array, same order). The pair must be
// loaded together. Fails with ErrIndexNotReady before Build/Load.
func (ix *Index) Save(vectorPath, metaPath string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.ready {
		return ErrIndexNotReady
	}
	for _, path := range []string{vectorPath, metaPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}

	f, err := os.Create(vectorPath)
	if err != nil {
		return fmt.Errorf("create vector file: %w", err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, uint32(ix.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(ix.entries))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, e := range ix.entries {
		if _, err := f.Write(float32SliceToBytes(e.vector)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}

	chunks := make([]models.Chunk, len(ix.entries))
	for i, e := range ix.entries {
		chunks[i] = e.chunk
	}
	data, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

// Load restores the index from the artifact pair written by Save. A missing
// or unreadable file, or a length mismatch between the two artifacts, fails
// with ErrCorruptIndex and leaves the index unchanged.
func (ix *Index) Load(vectorPath, metaPath string) error {
	f, err := os.Open(vectorPath)
	if err != nil {
		return fmt.Errorf("%w: open vector file: %v", ErrCorruptIndex, err)
	}
	defer f.Close()
	var dims, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dims); err != nil {
		return fmt.Errorf("%w: read dimensions: %v", ErrCorruptIndex, err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("%w: read count: %v", ErrCorruptIndex, err)
	}
	vectors := make([][]float32, 0, n)
	buf := make([]byte, int(dims)*4)
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("%w: read vector %d: %v", ErrCorruptIndex, i, err)
		}
		vectors = append(vectors, bytesToFloat32Slice(buf))
	}

	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("%w: read metadata file: %v", ErrCorruptIndex, err)
	}
	var chunks []models.Chunk
	if err := json.Unmarshal(metaData, &chunks); err != nil {
		return fmt.Errorf("%w: parse metadata: %v", ErrCorruptIndex, err)
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d vectors but %d metadata entries", ErrCorruptIndex, len(vectors), len(chunks))
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: artifacts contain no entries", ErrCorruptIndex)
	}

	entries := make([]entry, len(chunks))
	for i := range chunks {
		entries[i] = entry{vector: vectors[i], chunk: chunks[i]}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = entries
	ix.dimensions = int(dims)
	ix.ready = true
	return nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
