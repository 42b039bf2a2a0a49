package precision

import (
	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

// Pipeline applies the policy's casts at the model boundary.
//
// All methods return fresh maps and quantities; inputs are never mutated.
// Copying also prevents the model from holding references into the caller's
// data, which would invite pass-by-reference bugs across the boundary.
type Pipeline struct {
	policy Policy
}

// NewPipeline creates a pipeline for a validated policy.
func NewPipeline(policy Policy) *Pipeline {
	return &Pipeline{policy: policy}
}

// Policy returns the policy the pipeline enforces.
func (p *Pipeline) Policy() Policy { return p.policy }

// ToWorking casts model inputs down to the model dtype.
//
// When the model dtype is Float64 this is an identity (still a copy).
// Otherwise every geometric and feature quantity is downcast, except
// embedding-stage fields, which remain Float64 until CastAfterEmbedding.
// See atomdata.IsEmbeddingField for the rationale of the exemption.
func (p *Pipeline) ToWorking(data atomdata.Data) atomdata.Data {
	out := make(atomdata.Data, len(data))
	for k, q := range data {
		if !p.policy.Mixed() || atomdata.IsEmbeddingField(k) {
			out[k] = q.Clone()
			continue
		}
		out[k] = q.AsDtype(p.policy.modelDtype)
	}
	return out
}

// CastAfterEmbedding is the post-embedding cast point: it downcasts an
// embedding-stage quantity to the model dtype once the embedding stage has
// completed. It is a named, separately testable boundary rather than a
// side effect of ToWorking, so the full-precision-embedding exemption stays
// visible in the call flow.
func (p *Pipeline) CastAfterEmbedding(q *quantity.Quantity) *quantity.Quantity {
	if !p.policy.Mixed() {
		return q.Clone()
	}
	return q.AsDtype(p.policy.modelDtype)
}

// ToFull upcasts every model output to Float64, unconditionally.
//
// Loss and metric computation must only ever see data precision, regardless
// of the model dtype; there is no configuration that skips this cast.
func (p *Pipeline) ToFull(outputs atomdata.Data) atomdata.Data {
	out := make(atomdata.Data, len(outputs))
	for k, q := range outputs {
		out[k] = q.AsDtype(quantity.Float64)
	}
	return out
}
