package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/ferrite-md/ferrite/internal/convert"
	"github.com/ferrite-md/ferrite/internal/globalopts"
	"github.com/ferrite-md/ferrite/internal/model"
)

// FormatVersion identifies the artifact layout this package writes.
const FormatVersion = "ferrite.artifact.v1"

// Manifest is the self-describing header of an artifact.
//
// JSON tags match the canonical body exactly; the struct is also used to
// parse the body back at load time (canonical JSON is plain JSON).
type Manifest struct {
	FormatVersion  string         `json:"format_version"`
	ID             string         `json:"id"`
	ModelDtype     string         `json:"model_dtype"`
	ModelName      string         `json:"model_name"`
	Options        map[string]any `json:"options"`
	SignConvention string         `json:"sign_convention"`
	Weights        []WeightInfo   `json:"weights"`
}

// WeightInfo describes one stored parameter tensor.
type WeightInfo struct {
	Dtype string `json:"dtype"`
	Name  string `json:"name"`
	Shape []int  `json:"shape"`
}

// buildManifest assembles the manifest for a model about to be exported.
// id is the artifact UUID; injecting it keeps the body deterministic for
// golden tests.
func buildManifest(id string, g *model.GraphModel, snap globalopts.Snapshot) *Manifest {
	weights := g.Weights()
	infos := make([]WeightInfo, 0, len(weights))
	for name, q := range weights {
		infos = append(infos, WeightInfo{
			Dtype: q.Dtype().String(),
			Name:  name,
			Shape: q.Shape(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return &Manifest{
		FormatVersion:  FormatVersion,
		ID:             id,
		ModelDtype:     g.Policy().ModelDtype().String(),
		ModelName:      g.Module().Name(),
		Options:        snap.Map(),
		SignConvention: convert.SignConventionTag,
		Weights:        infos,
	}
}

// CanonicalBody returns the canonical JSON encoding of the manifest.
func (m *Manifest) CanonicalBody() ([]byte, error) {
	weights := make([]any, len(m.Weights))
	for i, w := range m.Weights {
		shape := make([]any, len(w.Shape))
		for j, dim := range w.Shape {
			shape[j] = dim
		}
		weights[i] = map[string]any{
			"dtype": w.Dtype,
			"name":  w.Name,
			"shape": shape,
		}
	}
	body := map[string]any{
		"format_version":  m.FormatVersion,
		"id":              m.ID,
		"model_dtype":     m.ModelDtype,
		"model_name":      m.ModelName,
		"options":         m.Options,
		"sign_convention": m.SignConvention,
		"weights":         weights,
	}
	return marshalCanonical(body)
}

// Digest returns the SHA-256 hex digest of the canonical body.
func (m *Manifest) Digest() (string, error) {
	body, err := m.CanonicalBody()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// parseManifest validates a stored body against its digest and decodes it.
func parseManifest(path string, body, digest string) (*Manifest, error) {
	sum := sha256.Sum256([]byte(body))
	if hex.EncodeToString(sum[:]) != digest {
		return nil, &FormatError{
			Code:    ErrCodeDigestMismatch,
			Message: "manifest body does not match its stored digest",
			Path:    path,
		}
	}
	var m Manifest
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return nil, &FormatError{
			Code:    ErrCodeBadManifest,
			Message: fmt.Sprintf("parse manifest: %v", err),
			Path:    path,
		}
	}
	// JSON decoding widens the integer option values to float64; restore
	// them so the parsed manifest stays canonically representable and
	// Digest() on it reproduces the stored digest.
	for k, v := range m.Options {
		if f, ok := v.(float64); ok && f == math.Trunc(f) {
			m.Options[k] = int64(f)
		}
	}
	if m.FormatVersion != FormatVersion {
		return nil, &FormatError{
			Code:    ErrCodeBadManifest,
			Message: fmt.Sprintf("unsupported format version %q (want %q)", m.FormatVersion, FormatVersion),
			Path:    path,
		}
	}
	return &m, nil
}
