package fusion

import "github.com/hyperjump/musubi/pkg/utils"

// SeedSemantic builds the initial semantic memory from a person's declared
// interest tag embeddings: the unit-normalized mean, or the zero vector
// when no tags exist.
func SeedSemantic(tagEmbeddings [][]float32, dim int) []float32 {
	seed := make([]float32, dim)
	if len(tagEmbeddings) == 0 {
		return seed
	}
	for _, emb := range tagEmbeddings {
		for i := 0; i < dim && i < len(emb); i++ {
			seed[i] += emb[i]
		}
	}
	inv := float32(1.0 / float64(len(tagEmbeddings)))
	for i := range seed {
		seed[i] *= inv
	}
	utils.NormalizeL2(seed)
	return seed
}

// BlendSemantic folds a new message embedding into the running semantic
// memory: normalize(old x (1-beta) + msg x beta). A small beta gives an
// exponential moving average that adapts slowly and shrugs off any single
// noisy message. An all-zero prior simply adopts the normalized message.
func BlendSemantic(old, msg []float32, beta float64) []float32 {
	out := make([]float32, len(old))
	for i := range old {
		m := float32(0)
		if i < len(msg) {
			m = msg[i]
		}
		out[i] = old[i]*float32(1-beta) + m*float32(beta)
	}
	utils.NormalizeL2(out)
	return out
}
