package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrite-md/ferrite/internal/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a run configuration",
		Long: `Validate a YAML run configuration against the schema.

Checks the model dtype, model hyperparameters, dataset transforms, and
rescale block without building anything. Errors carry schema positions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

type validateResult struct {
	Valid      bool   `json:"valid"`
	ModelDtype string `json:"model_dtype,omitempty"`
	ModelName  string `json:"model_name,omitempty"`
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	cfg, err := config.Load(path)
	if err != nil {
		return formatter.Failure(ExitFailure, "INVALID_CONFIG", err.Error())
	}

	text := fmt.Sprintf("%s: valid (model=%s dtype=%s)", path, cfg.Model.Name, cfg.ModelDtype)
	return formatter.Success(text, validateResult{
		Valid:      true,
		ModelDtype: cfg.ModelDtype,
		ModelName:  cfg.Model.Name,
	})
}
