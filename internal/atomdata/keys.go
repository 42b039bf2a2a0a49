package atomdata

// Well-known field keys for Data maps. Keys are stable identifiers: they
// appear in artifact manifests and logs, so renaming one is a format change.
const (
	// KeyPositions holds atom positions, shape [n_atoms, 3], kind Length.
	KeyPositions = "pos"

	// KeyCell holds the periodic cell as three row vectors, shape [3, 3],
	// kind Length. Absent for non-periodic structures.
	KeyCell = "cell"

	// KeyNodeEmbedding holds the per-atom embedding produced by the model's
	// embedding stage, kind Dimensionless.
	KeyNodeEmbedding = "node_embedding"

	// KeyEdgeEmbedding holds the per-edge embedding produced by the model's
	// embedding stage, kind Dimensionless.
	KeyEdgeEmbedding = "edge_embedding"

	// KeyEnergy holds the total potential energy, shape [1], kind Energy.
	KeyEnergy = "total_energy"

	// KeyForces holds per-atom forces, shape [n_atoms, 3], kind Force.
	KeyForces = "forces"

	// KeyStress holds the stress tensor, shape [3, 3], kind Stress.
	KeyStress = "stress"

	// KeyVirial holds the virial tensor, shape [3, 3], kind Virial.
	KeyVirial = "virial"
)

// embeddingFields are the fields exempt from early downcasting: they stay at
// full precision through the embedding stage and are only downcast at the
// post-embedding cast point. The exemption is numerical, not cosmetic -
// embeddings are sensitive to truncation at initialization, and keeping them
// in Float64 through the embedding stage measurably improves downstream
// stability. It is a correctness-relevant asymmetry, not an optimization.
var embeddingFields = map[string]bool{
	KeyNodeEmbedding: true,
	KeyEdgeEmbedding: true,
}

// IsEmbeddingField reports whether key names an embedding-stage field.
func IsEmbeddingField(key string) bool {
	return embeddingFields[key]
}
