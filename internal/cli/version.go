package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/chunkrun/internal/output"
	"github.com/aryankumar/chunkrun/pkg/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for chunkrun",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		return output.NewJSONFormatter(nil).Format(w, info)
	case "yaml":
		return output.NewYAMLFormatter(nil).Format(w, info)
	case "table":
		return output.NewTableFormatter(nil).Format(w, info.Map())
	default:
		fmt.Fprintln(w, info.String())
		return nil
	}
}
