package models

// Match is one k-nearest-neighbor hit.
type Match struct {
	PersonID   string  `json:"person_id"`
	Similarity float64 `json:"similarity"`
}

// Contribution is one ranked component of a match explanation. Label is
// "trait:<name>", "semantic:<dim>", or "interest:<tag>".
type Contribution struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Explanation decomposes the similarity between two people.
type Explanation struct {
	AID             string         `json:"a_id"`
	BID             string         `json:"b_id"`
	Similarity      float64        `json:"similarity"`
	Contributions   []Contribution `json:"contributions"`
	SharedInterests []string       `json:"shared_interests"`
}

// TurnResult is the outcome of processing one conversational turn.
type TurnResult struct {
	Person *Person `json:"person"`
	// EmbeddingFallback is true when the external embedding call failed and
	// the deterministic pseudo-embedding was substituted.
	EmbeddingFallback bool `json:"embedding_fallback"`
}

// MapPoint is one person's position in the compatibility map.
type MapPoint struct {
	PersonID string     `json:"person_id"`
	Cluster  int        `json:"cluster"` // -1 = noise
	Position [3]float64 `json:"position"`
}

// CompatibilityMap is the full clustered, projected view of the vector set.
type CompatibilityMap struct {
	Points []MapPoint `json:"points"`
	// ProjectionFallback is true when there were too few points for the
	// neighborhood-based layout and positions are random within the unit
	// cube; such positions carry no spatial meaning.
	ProjectionFallback bool `json:"projection_fallback"`
}

// DirectoryHit is one person returned by a directory (name/interest) search.
type DirectoryHit struct {
	PersonID string  `json:"person_id"`
	Score    float64 `json:"score"`
}
