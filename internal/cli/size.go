package cli

import (
	"fmt"

	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
	"github.com/fhuszti/medias-conversion-ms/internal/taskgraph"
	"github.com/spf13/cobra"
)

var (
	sizeMaxWidth  int
	sizeMaxHeight int
	sizeBlur      bool
	sizeArgs      bool
)

var sizeCmd = &cobra.Command{
	Use:   "size <token>...",
	Short: "Resolve size tokens against the dimension limits",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSize,
}

func init() {
	sizeCmd.Flags().IntVar(&sizeMaxWidth, "max-width", sizespec.DefaultMaxWidth, "maximum width")
	sizeCmd.Flags().IntVar(&sizeMaxHeight, "max-height", sizespec.DefaultMaxHeight, "maximum height")
	sizeCmd.Flags().BoolVar(&sizeBlur, "blur", false, "show the blurred variant command")
	sizeCmd.Flags().BoolVar(&sizeArgs, "args", false, "print the full convert command for each token")
	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	limits := sizespec.Limits{MaxWidth: sizeMaxWidth, MaxHeight: sizeMaxHeight}
	compiler := imagecmd.NewCompiler(limits)

	for _, token := range args {
		scale, err := limits.Parse(token)
		if err != nil {
			return err
		}
		geometry := "(original size)"
		if scale != nil {
			geometry = scale.Geometry()
		}
		fmt.Fprintf(out, "%s\t%s\n", token, geometry)

		if !sizeArgs {
			continue
		}
		op, err := compiler.Compile(taskgraph.ImportNode, taskgraph.DefaultThumbnailFilename, nil, token, sizeBlur)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  convert %s\n", op.CommandLine())
	}
	return nil
}
