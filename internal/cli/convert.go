package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/convert"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "convert <in.yaml> <out.yaml>",
		Short: "Derive stress or virial labels over a dataset",
		Long: `Load a YAML dataset and derive the requested label on every frame that
has the source label, using the fixed sign convention ` + convert.SignConventionTag + `.

Frames that already carry the target label are left untouched. A frame with
a non-positive cell volume fails the whole conversion, with the frame index
in the error.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, target, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "label to derive: stress or virial (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

type convertResult struct {
	Frames int    `json:"frames"`
	Target string `json:"target"`
	Output string `json:"output"`
}

func runConvert(opts *RootOptions, target, inPath, outPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	var tr atomdata.Transform
	switch target {
	case "stress":
		tr = atomdata.StressFromVirialTransform{}
	case "virial":
		tr = atomdata.VirialFromStressTransform{}
	default:
		return formatter.Failure(ExitCommandError, "BAD_FLAG",
			fmt.Sprintf("--to must be stress or virial, got %q", target))
	}

	frames, err := atomdata.LoadFrames(inPath)
	if err != nil {
		return formatter.Failure(ExitFailure, "BAD_DATASET", err.Error())
	}

	if err := atomdata.ApplyTransforms(frames, tr); err != nil {
		code := "CONVERT_FAILED"
		if convert.IsGeometryError(err) {
			code = "INVALID_GEOMETRY"
		}
		return formatter.Failure(ExitFailure, code, err.Error())
	}

	if err := atomdata.SaveFrames(outPath, frames); err != nil {
		return formatter.Failure(ExitFailure, "WRITE_FAILED", err.Error())
	}

	text := fmt.Sprintf("converted %d frame(s): %s derived, wrote %s", len(frames), target, outPath)
	return formatter.Success(text, convertResult{
		Frames: len(frames),
		Target: target,
		Output: outPath,
	})
}
