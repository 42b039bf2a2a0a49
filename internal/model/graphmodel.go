package model

import (
	"fmt"

	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/precision"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

// Module is the architecture-side contract.
//
// Embed runs the embedding stage: it consumes model inputs and returns the
// embedding-stage fields (atomdata.IsEmbeddingField keys) at Float64. The
// embedding stage is the one place working-precision models still compute
// in full precision; GraphModel performs the downcast afterwards.
//
// Forward consumes the inputs plus the (now cast) embedding fields and
// returns output quantities at the model's working precision.
type Module interface {
	// Name identifies the architecture in manifests and logs.
	Name() string

	// Embed computes the embedding-stage fields at full precision.
	Embed(data atomdata.Data) (atomdata.Data, error)

	// Forward computes model outputs from inputs and embeddings.
	Forward(data atomdata.Data) (atomdata.Data, error)

	// Weights returns the model parameters at full precision, keyed by
	// stable names, for artifact export.
	Weights() map[string]*quantity.Quantity
}

// GraphModel wraps a Module with the precision-casting protocol.
type GraphModel struct {
	module   Module
	pipeline *precision.Pipeline
	rescale  *Rescale // optional, applied in full precision
}

// NewGraphModel builds the wrapper. The policy must come from
// precision.NewPolicy, so the model dtype is already validated; construction
// cannot fail on precision configuration here.
func NewGraphModel(module Module, policy precision.Policy) *GraphModel {
	return &GraphModel{
		module:   module,
		pipeline: precision.NewPipeline(policy),
	}
}

// WithRescale attaches an output rescale stage and returns the model.
func (g *GraphModel) WithRescale(r *Rescale) *GraphModel {
	g.rescale = r
	return g
}

// Policy returns the model's precision policy.
func (g *GraphModel) Policy() precision.Policy { return g.pipeline.Policy() }

// Module returns the wrapped architecture.
func (g *GraphModel) Module() Module { return g.module }

// Weights returns the wrapped module's parameters.
func (g *GraphModel) Weights() map[string]*quantity.Quantity { return g.module.Weights() }

// Forward runs one pass through the full casting protocol.
//
// The returned Data is entirely Float64 and safe to feed to loss/metric
// code. The input map is never mutated.
func (g *GraphModel) Forward(data atomdata.Data) (atomdata.Data, error) {
	in := g.pipeline.ToWorking(data)

	embedded, err := g.module.Embed(in)
	if err != nil {
		return nil, fmt.Errorf("embedding stage: %w", err)
	}
	for k, q := range embedded {
		if !atomdata.IsEmbeddingField(k) {
			return nil, fmt.Errorf("embedding stage produced non-embedding field %q", k)
		}
		if q.Dtype() != quantity.Float64 {
			return nil, fmt.Errorf("embedding field %q left the embedding stage at %s, want float64", k, q.Dtype())
		}
		in[k] = g.pipeline.CastAfterEmbedding(q)
	}

	out, err := g.module.Forward(in)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}

	full := g.pipeline.ToFull(out)
	if g.rescale != nil {
		full = g.rescale.Apply(full)
	}
	return full, nil
}
