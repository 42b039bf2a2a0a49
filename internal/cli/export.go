package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrite-md/ferrite/internal/artifact"
	"github.com/ferrite-md/ferrite/internal/config"
	"github.com/ferrite-md/ferrite/internal/globalopts"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <config.yaml> <artifact-path>",
		Short: "Build a model and export it as a deployment artifact",
		Long: `Build the configured model and export it to a self-contained artifact.

The process global options are set from the config, then captured into the
artifact exactly once, at export time. The artifact records the model
weights at full precision, the precision policy, the captured options, and
the stress sign convention.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], args[1], cmd)
		},
	}
}

type exportResult struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	ModelName  string `json:"model_name"`
	ModelDtype string `json:"model_dtype"`
	Digest     string `json:"digest"`
}

func runExport(opts *RootOptions, configPath, artifactPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	cfg, err := config.Load(configPath)
	if err != nil {
		return formatter.Failure(ExitFailure, "INVALID_CONFIG", err.Error())
	}

	g, err := cfg.BuildModel()
	if err != nil {
		return formatter.Failure(ExitFailure, "INVALID_CONFIG", err.Error())
	}

	mgr := globalopts.Default()
	mgr.Set(cfg.GlobalOptions())
	snap := mgr.Capture()

	id, err := artifact.Save(cmd.Context(), artifactPath, g, snap)
	if err != nil {
		return formatter.Failure(ExitFailure, "EXPORT_FAILED", err.Error())
	}

	manifest, err := artifact.ReadManifest(cmd.Context(), artifactPath)
	if err != nil {
		return formatter.Failure(ExitFailure, "EXPORT_FAILED", err.Error())
	}
	digest, err := manifest.Digest()
	if err != nil {
		return formatter.Failure(ExitFailure, "EXPORT_FAILED", err.Error())
	}

	text := fmt.Sprintf("exported %s (%s, %s) to %s\nid: %s\ndigest: %s",
		manifest.ModelName, manifest.ModelDtype, manifest.SignConvention, artifactPath, id, digest)
	return formatter.Success(text, exportResult{
		ID:         id,
		Path:       artifactPath,
		ModelName:  manifest.ModelName,
		ModelDtype: manifest.ModelDtype,
		Digest:     digest,
	})
}
