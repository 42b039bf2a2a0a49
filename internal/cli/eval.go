package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferrite-md/ferrite/internal/artifact"
	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/config"
	"github.com/ferrite-md/ferrite/internal/convert"
	"github.com/ferrite-md/ferrite/internal/globalopts"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <config.yaml> <artifact-path>",
		Short: "Evaluate a deployed artifact over a dataset",
		Long: `Load a deployed artifact and run it over the configured dataset.

The artifact's global-options snapshot is applied before the first forward
pass; with set_global_options false in the config, conflict warnings are
suppressed. Energies and, for periodic frames, stresses are reported at
full precision.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], args[1], cmd)
		},
	}
}

type frameEval struct {
	Frame    int      `json:"frame"`
	Energy   float64  `json:"energy"`
	Pressure *float64 `json:"pressure,omitempty"`
}

type evalResult struct {
	ArtifactID string      `json:"artifact_id"`
	ModelDtype string      `json:"model_dtype"`
	Frames     []frameEval `json:"frames"`
}

func runEval(opts *RootOptions, configPath, artifactPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	cfg, err := config.Load(configPath)
	if err != nil {
		return formatter.Failure(ExitFailure, "INVALID_CONFIG", err.Error())
	}
	if cfg.Dataset == nil {
		return formatter.Failure(ExitFailure, "INVALID_CONFIG", "config has no dataset to evaluate")
	}

	loaded, err := artifact.Load(cmd.Context(), artifactPath, globalopts.Default(), cfg.SetGlobalOptions)
	if err != nil {
		code := "LOAD_FAILED"
		if artifact.IsFormatError(err) {
			code = "BAD_ARTIFACT"
		}
		return formatter.Failure(ExitFailure, code, err.Error())
	}
	g, err := loaded.Instantiate()
	if err != nil {
		return formatter.Failure(ExitFailure, "BAD_ARTIFACT", err.Error())
	}

	frames, err := atomdata.LoadFrames(cfg.Dataset.Path)
	if err != nil {
		return formatter.Failure(ExitFailure, "BAD_DATASET", err.Error())
	}
	transforms := make([]atomdata.Transform, 0, len(cfg.Dataset.Transforms))
	for _, name := range cfg.Dataset.Transforms {
		tr, err := atomdata.TransformByName(name)
		if err != nil {
			return formatter.Failure(ExitFailure, "INVALID_CONFIG", err.Error())
		}
		transforms = append(transforms, tr)
	}
	if err := atomdata.ApplyTransforms(frames, transforms...); err != nil {
		return formatter.Failure(ExitFailure, "INVALID_GEOMETRY", err.Error())
	}

	result := evalResult{
		ArtifactID: loaded.Manifest.ID,
		ModelDtype: loaded.Manifest.ModelDtype,
	}
	var b strings.Builder
	fmt.Fprintf(&b, "artifact %s (%s)\n", loaded.Manifest.ID, loaded.Manifest.ModelDtype)

	for i, f := range frames {
		out, err := g.Forward(f.Inputs())
		if err != nil {
			return formatter.Failure(ExitFailure, "EVAL_FAILED",
				fmt.Sprintf("frame %d: %v", i, err))
		}
		fe := frameEval{Frame: i, Energy: out[atomdata.KeyEnergy].At(0)}

		if virial, ok := out[atomdata.KeyVirial]; ok {
			vol, err := f.Volume()
			if err != nil {
				return formatter.Failure(ExitFailure, "INVALID_GEOMETRY",
					fmt.Sprintf("frame %d: %v", i, err))
			}
			stress, err := convert.StressFromVirial(virial, vol)
			if err != nil {
				return formatter.Failure(ExitFailure, "INVALID_GEOMETRY",
					fmt.Sprintf("frame %d: %v", i, err))
			}
			p := -(stress.At(0) + stress.At(4) + stress.At(8)) / 3
			fe.Pressure = &p
		}

		if fe.Pressure != nil {
			fmt.Fprintf(&b, "frame %d: energy=%.8g pressure=%.8g\n", i, fe.Energy, *fe.Pressure)
		} else {
			fmt.Fprintf(&b, "frame %d: energy=%.8g\n", i, fe.Energy)
		}
		result.Frames = append(result.Frames, fe)
	}

	return formatter.Success(strings.TrimRight(b.String(), "\n"), result)
}
