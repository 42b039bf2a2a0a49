package quantity

// Kind tags a Quantity with its physical dimension.
//
// Kinds are descriptive only. The unit contract (see the package doc) is
// upheld by the user; no arithmetic in ferrite inspects Kind to convert or
// verify units. The tag exists so code and logs can say what a tensor is.
type Kind string

const (
	// Energy is an extensive energy (e.g. total potential energy of a frame).
	Energy Kind = "energy"

	// Length is a geometric length or position component.
	Length Kind = "length"

	// Force has units energy/length.
	Force Kind = "force"

	// Stress has units energy/length³ (intensive).
	Stress Kind = "stress"

	// Virial has units of energy (extensive); related to Stress by the fixed
	// sign convention in the convert package.
	Virial Kind = "virial"

	// Dimensionless carries no physical unit (features, weights, embeddings).
	Dimensionless Kind = "dimensionless"
)
