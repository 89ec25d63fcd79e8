package embedding

import (
	"context"
	"math"
	"testing"
)

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i] * b[i])
	}
	return sum
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, "carpenter builds wooden frameworks")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := e.Embed(ctx, "carpenter builds wooden frameworks")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestMockEmbedderUnitNorm(t *testing.T) {
	e := NewMockEmbedder(64)
	texts := []string{
		"carpenter",
		"Occupation: Welder\nSummary: Welders join metal parts",
		"IDEA 2004 Transition Requirement: goals must be measurable",
	}
	for _, text := range texts {
		emb, err := e.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed(%q) failed: %v", text, err)
		}
		norm := math.Sqrt(dot(emb, emb))
		if math.Abs(norm-1) > 1e-5 {
			t.Errorf("Embed(%q) norm = %f, want 1", text, norm)
		}
	}
}

func TestMockEmbedderSharedVocabulary(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()

	carpenter, _ := e.Embed(ctx, "carpenter woodworking construction tools")
	related, _ := e.Embed(ctx, "carpenter construction work")
	unrelated, _ := e.Embed(ctx, "sous chef culinary plating")

	if dot(carpenter, related) <= dot(carpenter, unrelated) {
		t.Errorf("shared-vocabulary similarity %f should exceed unrelated similarity %f",
			dot(carpenter, related), dot(carpenter, unrelated))
	}
}

func TestMockEmbedderBatchMatchesSingle(t *testing.T) {
	e := NewMockEmbedder(32)
	ctx := context.Background()
	texts := []string{"one text", "another text", "a third"}

	batch, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(batch) != len(texts) {
		t.Fatalf("batch size %d, want %d", len(batch), len(texts))
	}
	for i, text := range texts {
		single, err := e.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed failed: %v", err)
		}
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch[%d] differs from single embed at %d", i, j)
			}
		}
	}
}

func TestMockEmbedderDimensions(t *testing.T) {
	if got := NewMockEmbedder(128).Dimensions(); got != 128 {
		t.Errorf("Dimensions() = %d, want 128", got)
	}
	if got := NewMockEmbedder(0).Dimensions(); got != 384 {
		t.Errorf("Dimensions() with zero arg = %d, want default 384", got)
	}
}

func TestNewEmbedderUnknownProvider(t *testing.T) {
	if _, err := NewEmbedder(Options{Provider: "word2vec"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewEmbedderMock(t *testing.T) {
	e, err := NewEmbedder(Options{Provider: "mock", Dimensions: 16})
	if err != nil {
		t.Fatalf("NewEmbedder(mock) failed: %v", err)
	}
	defer e.Close()
	if e.Dimensions() != 16 {
		t.Errorf("Dimensions() = %d, want 16", e.Dimensions())
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Set("c", []float32{3})

	if c.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if v, ok := c.Get("c"); !ok || v[0] != 3 {
		t.Error("newest entry missing")
	}
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a")
	c.Set("c", []float32{3})

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
}

func TestCacheSetOverwrites(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("a", []float32{9})
	if c.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", c.Len())
	}
	if v, _ := c.Get("a"); v[0] != 9 {
		t.Errorf("value = %f, want 9", v[0])
	}
}

func TestSimpleTokenizer(t *testing.T) {
	tk := &SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tk.Tokenize("hello world", 8)

	if len(inputIDs) != 8 || len(attentionMask) != 8 || len(tokenTypeIDs) != 8 {
		t.Fatalf("token slices must be padded to maxTokens")
	}
	if inputIDs[0] != 101 {
		t.Errorf("inputIDs[0] = %d, want [CLS] 101", inputIDs[0])
	}
	if inputIDs[3] != 102 {
		t.Errorf("inputIDs[3] = %d, want [SEP] 102", inputIDs[3])
	}
	if attentionMask[0] != 1 || attentionMask[1] != 1 || attentionMask[2] != 1 || attentionMask[3] != 1 {
		t.Errorf("attention mask wrong: %v", attentionMask)
	}
	if attentionMask[4] != 0 {
		t.Errorf("padding positions must have zero attention: %v", attentionMask)
	}
}

func TestHashStringNonNegative(t *testing.T) {
	for _, s := range []string{"", "a", "carpenter", "ümläut", "a very long string that will overflow the accumulator several times over"} {
		if h := HashString(s); h < 0 {
			t.Errorf("HashString(%q) = %d, want non-negative", s, h)
		}
	}
	if HashString("stable") != HashString("stable") {
		t.Error("HashString must be deterministic")
	}
}
