package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/javagen/pkg/action/bundle"
	"github.com/cmmoran/javagen/pkg/parser"
)

func init() {
	rootCmd.AddCommand(NewBundleCommand())
}

func NewBundleCommand() *cobra.Command {
	options := parser.NewOptions()

	var bundleCmd = &cobra.Command{
		Use:   "bundle",
		Short: "embed rendered sources in a Go file",
		Long:  "Render every document and write a Go file whose Sources map holds the results",
		RunE: func(c *cobra.Command, args []string) error {
			prepare(options)
			path, err := bundle.Generate(c.Context(), options)
			if err != nil {
				return err
			}
			c.Println(path)
			return nil
		},
	}
	addDocumentFlags(bundleCmd, options)
	bundleCmd.Flags().StringVarP(&options.BundlePackage, "package", "p", options.BundlePackage, "Go package name of the bundle")
	bundleCmd.Flags().StringVarP(&options.BundleFile, "output-file", "f", options.BundleFile, "bundle file name, relative to the output directory")

	return bundleCmd
}
