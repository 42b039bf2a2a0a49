package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/ferrite-md/ferrite/internal/globalopts"
	"github.com/ferrite-md/ferrite/internal/model"
	"github.com/ferrite-md/ferrite/internal/precision"
)

//go:embed schema.cue
var schemaCUE string

// Config is a validated run configuration.
type Config struct {
	ModelDtype       string        `json:"model_dtype"`
	Model            PairModel     `json:"model"`
	SetGlobalOptions bool          `json:"set_global_options"`
	Seed             int64         `json:"seed"`
	Deterministic    bool          `json:"deterministic"`
	TensorBackend    string        `json:"tensor_backend"`
	Dataset          *Dataset      `json:"dataset,omitempty"`
	Rescale          *RescaleBlock `json:"rescale,omitempty"`
}

// PairModel holds pair-potential hyperparameters.
type PairModel struct {
	Name      string  `json:"name"`
	Amplitude float64 `json:"amplitude"`
	Decay     float64 `json:"decay"`
	Cutoff    float64 `json:"cutoff"`
}

// Dataset names a frames file and its transform chain.
type Dataset struct {
	Path       string   `json:"path"`
	Transforms []string `json:"transforms"`
}

// RescaleBlock configures the global output rescale.
type RescaleBlock struct {
	Scale float64  `json:"scale"`
	Keys  []string `json:"keys"`
}

// Load reads a YAML config file and validates it against the schema.
//
// Errors carry CUE positions where the schema can attribute them, so a bad
// field reports the schema constraint it violated.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse validates raw YAML config bytes.
func Parse(raw []byte) (*Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("config is empty")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}

	val := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(doc))
	if err := val.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}

	var cfg Config
	if err := val.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Policy builds the precision policy the config names.
func (c *Config) Policy() (precision.Policy, error) {
	return precision.NewPolicyFromName(c.ModelDtype)
}

// GlobalOptions returns the framework options the config requests for this
// process.
func (c *Config) GlobalOptions() globalopts.Options {
	opts := globalopts.Defaults()
	opts.Seed = c.Seed
	opts.Deterministic = c.Deterministic
	opts.TensorBackend = c.TensorBackend
	return opts
}

// BuildModel constructs the configured GraphModel. The precision policy is
// validated first, so an unsupported model_dtype fails before any module is
// built.
func (c *Config) BuildModel() (*model.GraphModel, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}

	var mod model.Module
	switch c.Model.Name {
	case "pair_exp":
		mod, err = model.NewPairPotential(c.Model.Amplitude, c.Model.Decay, c.Model.Cutoff)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", c.Model.Name, err)
		}
	default:
		return nil, fmt.Errorf("unknown model architecture %q", c.Model.Name)
	}

	g := model.NewGraphModel(mod, policy)
	if c.Rescale != nil {
		r, err := model.NewRescale(c.Rescale.Scale, c.Rescale.Keys, nil)
		if err != nil {
			return nil, fmt.Errorf("rescale: %w", err)
		}
		g = g.WithRescale(r)
	}
	return g, nil
}
