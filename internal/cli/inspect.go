package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferrite-md/ferrite/internal/artifact"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <artifact-path>",
		Short: "Print an artifact's manifest",
		Long: `Read and verify an artifact's manifest without loading its weights or
touching process global options. The manifest digest is checked, so a
tampered artifact fails here.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	manifest, err := artifact.ReadManifest(cmd.Context(), path)
	if err != nil {
		code := "READ_FAILED"
		if artifact.IsFormatError(err) {
			code = "BAD_ARTIFACT"
		}
		return formatter.Failure(ExitFailure, code, err.Error())
	}

	return formatter.Success(renderManifest(manifest), manifest)
}

// renderManifest renders the manifest as aligned text. Option and weight
// order is deterministic (sorted names), so the output is stable for a
// given artifact.
func renderManifest(m *artifact.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "format:          %s\n", m.FormatVersion)
	fmt.Fprintf(&b, "id:              %s\n", m.ID)
	fmt.Fprintf(&b, "model:           %s\n", m.ModelName)
	fmt.Fprintf(&b, "model dtype:     %s\n", m.ModelDtype)
	fmt.Fprintf(&b, "sign convention: %s\n", m.SignConvention)

	b.WriteString("options:\n")
	for _, name := range sortedKeys(m.Options) {
		fmt.Fprintf(&b, "  %s: %v\n", name, m.Options[name])
	}

	b.WriteString("weights:\n")
	for _, w := range m.Weights {
		fmt.Fprintf(&b, "  %s  %s  %v\n", w.Name, w.Dtype, w.Shape)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
