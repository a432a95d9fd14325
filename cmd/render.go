package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/javagen/pkg/action/render"
	"github.com/cmmoran/javagen/pkg/parser"
)

func init() {
	var renderCmd = NewRenderCommand()
	rootCmd.AddCommand(renderCmd)
}

// addDocumentFlags registers the flags every rendering command shares.
func addDocumentFlags(c *cobra.Command, options *parser.Options) {
	c.Flags().StringSliceVarP(&options.InFiles, "input", "i", []string{}, "declaration documents or directories of them (.yaml, .yml, .toml, .json)")
	c.Flags().StringVarP(&options.OutDir, "output-directory", "o", options.OutDir, "directory to write rendered sources")
	c.Flags().StringSliceVarP(&options.ExcludeTypes, "exclude-types", "t", []string{}, "skip documents whose top-level type has one of these names")
	c.Flags().BoolVarP(&options.Accessors, "accessors", "a", false, "generate accessors for every class")
	c.Flags().IntVarP(&options.Jobs, "jobs", "j", 0, "files rendered concurrently (0 = GOMAXPROCS)")
	c.Flags().StringVar(&options.FileComment, "file-comment", "", "comment for files whose document has none")
	_ = c.MarkFlagRequired("input")
}

// prepare applies the render.* settings and normalizes options.
func prepare(options *parser.Options) {
	options.Render = renderConfig()
	options.Normalize()
}

func NewRenderCommand() *cobra.Command {
	var (
		options = parser.NewOptions()
		stdout  bool
	)

	// renderCmd represents the javagen render command
	var renderCmd = &cobra.Command{
		Use:   "render",
		Short: "render java sources",
		Long:  "Render one Java source file per declaration document",
		RunE: func(c *cobra.Command, args []string) error {
			prepare(options)
			if stdout {
				arts, err := render.Artifacts(c.Context(), options)
				if err != nil {
					return err
				}
				return render.Print(c.OutOrStdout(), arts)
			}
			paths, err := render.Generate(c.Context(), options)
			if err != nil {
				return err
			}
			for _, p := range paths {
				c.Println(p)
			}
			return nil
		},
	}
	addDocumentFlags(renderCmd, options)
	renderCmd.Flags().BoolVar(&stdout, "stdout", false, "print sources instead of writing files")

	return renderCmd
}
