package models

// RetrievalResult is a single similarity hit: the chunk plus its
// inner-product score (higher is more similar). Ephemeral, never persisted.
type RetrievalResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// StudentContext is the categorized evidence retrieved for one student
// profile, before and after formatting.
type StudentContext struct {
	Career    []RetrievalResult `json:"career"`
	Standards []RetrievalResult `json:"standards"`
	Examples  []RetrievalResult `json:"examples"`
}
