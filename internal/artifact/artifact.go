package artifact

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ferrite-md/ferrite/internal/globalopts"
	"github.com/ferrite-md/ferrite/internal/model"
	"github.com/ferrite-md/ferrite/internal/precision"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

//go:embed schema.sql
var schemaSQL string

// Save exports a model to a new artifact file at path and returns the
// artifact ID.
//
// The snapshot should come from globalopts capture at this exact moment;
// Save does not capture it itself so the caller controls the "exactly once,
// at export time" contract. An existing file at path is an error: artifacts
// are immutable, never updated in place.
func Save(ctx context.Context, path string, g *model.GraphModel, snap globalopts.Snapshot) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("artifact %s already exists; artifacts are write-once", path)
	}

	// Build in a temp file and rename into place on commit, so a failed
	// export never leaves a partial artifact blocking the write-once check.
	tmp := path + ".tmp"
	id, err := saveTo(ctx, tmp, g, snap)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalize artifact: %w", err)
	}
	return id, nil
}

func saveTo(ctx context.Context, path string, g *model.GraphModel, snap globalopts.Snapshot) (string, error) {
	id := uuid.NewString()
	manifest := buildManifest(id, g, snap)
	body, err := manifest.CanonicalBody()
	if err != nil {
		return "", fmt.Errorf("build manifest: %w", err)
	}
	digest, err := manifest.Digest()
	if err != nil {
		return "", fmt.Errorf("digest manifest: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin artifact transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('format_version', ?)`, FormatVersion); err != nil {
		return "", fmt.Errorf("write meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO manifest (id, body, digest) VALUES (1, ?, ?)`, string(body), digest); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	for name, value := range snap.StringMap() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO options (name, value) VALUES (?, ?)`, name, value); err != nil {
			return "", fmt.Errorf("write option %s: %w", name, err)
		}
	}

	for name, q := range g.Weights() {
		shape, err := json.Marshal(q.Shape())
		if err != nil {
			return "", fmt.Errorf("encode shape for %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO weights (name, shape, dtype, data) VALUES (?, ?, ?, ?)`,
			name, string(shape), q.Dtype().String(), encodeFloat64(q.Data())); err != nil {
			return "", fmt.Errorf("write weight %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit artifact: %w", err)
	}
	return id, nil
}

// Loaded is the result of reading an artifact.
type Loaded struct {
	Manifest *Manifest
	Policy   precision.Policy
	Snapshot globalopts.Snapshot
	Weights  map[string]*quantity.Quantity
}

// Load reads an artifact and applies its global-options snapshot.
//
// The snapshot is applied through mgr - synchronously, with conflict
// warnings per warnOnConflict - before any weight is returned, so no
// forward pass can observe pre-snapshot process state. This is the ordering
// guarantee the artifact format exists to provide.
func Load(ctx context.Context, path string, mgr *globalopts.Manager, warnOnConflict bool) (*Loaded, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	manifest, err := readManifest(ctx, db, path)
	if err != nil {
		return nil, err
	}

	// Fail fast on the precision hyperparameter before touching globals.
	policy, err := precision.NewPolicyFromName(manifest.ModelDtype)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	snap, err := readSnapshot(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	mgr.Apply(snap, warnOnConflict)

	weights, err := readWeights(ctx, db, path, manifest)
	if err != nil {
		return nil, err
	}

	return &Loaded{
		Manifest: manifest,
		Policy:   policy,
		Snapshot: snap,
		Weights:  weights,
	}, nil
}

// Instantiate rebuilds the GraphModel for architectures this build knows.
func (l *Loaded) Instantiate() (*model.GraphModel, error) {
	switch l.Manifest.ModelName {
	case "pair_exp":
		mod, err := model.PairPotentialFromWeights(l.Weights)
		if err != nil {
			return nil, fmt.Errorf("rebuild %s: %w", l.Manifest.ModelName, err)
		}
		return model.NewGraphModel(mod, l.Policy), nil
	default:
		return nil, fmt.Errorf("unknown model architecture %q", l.Manifest.ModelName)
	}
}

// ReadManifest reads and verifies only the manifest, without applying the
// snapshot or loading weights. Used for inspection.
func ReadManifest(ctx context.Context, path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readManifest(ctx, db, path)
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	// Single connection: artifacts are small and written in one shot.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// DELETE journal keeps the artifact a single file on disk.
	for _, pragma := range []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func readManifest(ctx context.Context, db *sql.DB, path string) (*Manifest, error) {
	var body, digest string
	err := db.QueryRowContext(ctx, `SELECT body, digest FROM manifest WHERE id = 1`).Scan(&body, &digest)
	if err == sql.ErrNoRows {
		return nil, &FormatError{
			Code:    ErrCodeMissingManifest,
			Message: "artifact has no manifest",
			Path:    path,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return parseManifest(path, body, digest)
}

func readSnapshot(ctx context.Context, db *sql.DB) (globalopts.Snapshot, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, value FROM options`)
	if err != nil {
		return globalopts.Snapshot{}, fmt.Errorf("read options: %w", err)
	}
	defer rows.Close()

	m := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return globalopts.Snapshot{}, fmt.Errorf("read options: %w", err)
		}
		m[name] = value
	}
	if err := rows.Err(); err != nil {
		return globalopts.Snapshot{}, fmt.Errorf("read options: %w", err)
	}
	return globalopts.SnapshotFromStringMap(m)
}

func readWeights(ctx context.Context, db *sql.DB, path string, manifest *Manifest) (map[string]*quantity.Quantity, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, shape, dtype, data FROM weights`)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	defer rows.Close()

	weights := map[string]*quantity.Quantity{}
	for rows.Next() {
		var name, shapeJSON, dtypeName string
		var blob []byte
		if err := rows.Scan(&name, &shapeJSON, &dtypeName, &blob); err != nil {
			return nil, fmt.Errorf("read weights: %w", err)
		}
		var shape []int
		if err := json.Unmarshal([]byte(shapeJSON), &shape); err != nil {
			return nil, &FormatError{
				Code:    ErrCodeBadWeights,
				Message: fmt.Sprintf("weight %s: bad shape %q", name, shapeJSON),
				Path:    path,
			}
		}
		dtype, err := quantity.DtypeFromName(dtypeName)
		if err != nil {
			return nil, &FormatError{
				Code:    ErrCodeBadWeights,
				Message: fmt.Sprintf("weight %s: %v", name, err),
				Path:    path,
			}
		}
		vals, err := decodeFloat64(blob)
		if err != nil {
			return nil, &FormatError{
				Code:    ErrCodeBadWeights,
				Message: fmt.Sprintf("weight %s: %v", name, err),
				Path:    path,
			}
		}
		q, err := quantity.FromSlice(quantity.Dimensionless, dtype, vals, shape...)
		if err != nil {
			return nil, &FormatError{
				Code:    ErrCodeBadWeights,
				Message: fmt.Sprintf("weight %s: %v", name, err),
				Path:    path,
			}
		}
		weights[name] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}

	// Every weight the manifest inventories must be present.
	for _, info := range manifest.Weights {
		if _, ok := weights[info.Name]; !ok {
			return nil, &FormatError{
				Code:    ErrCodeBadWeights,
				Message: fmt.Sprintf("manifest lists weight %s but it is missing", info.Name),
				Path:    path,
			}
		}
	}
	return weights, nil
}

func encodeFloat64(vals []float64) []byte {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeFloat64(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 8", len(blob))
	}
	vals := make([]float64, len(blob)/8)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vals, nil
}
