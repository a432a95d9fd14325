package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cmmoran/javagen/pkg/action/snapshot"
	"github.com/cmmoran/javagen/pkg/parser"
)

const defaultManifest = "javagen-manifest.yaml"

func init() {
	rootCmd.AddCommand(NewSnapshotCommand(), NewListCommand(), NewDiffCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var (
		options               = parser.NewOptions()
		manifestPath          string
		snapshotName, release string
	)

	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "render a versioned snapshot",
		Long:  "Render every document into <output-directory>/<version> and record it in the manifest",
		RunE: func(c *cobra.Command, args []string) error {
			prepare(options)
			dir, err := snapshot.Generate(c.Context(), options, manifestPath, snapshotName, release)
			if err != nil {
				return err
			}
			c.Println(dir)
			return nil
		},
	}
	addDocumentFlags(snapshotCmd, options)
	snapshotCmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "manifest file")
	snapshotCmd.Flags().StringVarP(&snapshotName, "name", "n", "sources", "snapshot name")
	snapshotCmd.Flags().StringVarP(&release, "version", "v", "", "snapshot version (semver)")
	_ = snapshotCmd.MarkFlagRequired("version")

	return snapshotCmd
}

func NewListCommand() *cobra.Command {
	var manifestPath string

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, s := range m.Sorted() {
				marker := " "
				switch s.Version {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				_, _ = fmt.Fprintf(out, "%s %-10s %-12s %3d files  %s\n", marker, s.Version, s.Name, len(s.Artifacts), s.Dir)
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "manifest file")

	return listCmd
}

func NewDiffCommand() *cobra.Command {
	var (
		manifestPath string
		noColor      bool
	)

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diffs, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if noColor {
				color.NoColor = true
			}
			for _, d := range diffs {
				printDiff(c.OutOrStdout(), d)
			}
			return nil
		},
	}
	diffCmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "manifest file")
	diffCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return diffCmd
}

var (
	headerColor  = color.New(color.Bold)
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
)

func printDiff(out io.Writer, d snapshot.FileDiff) {
	_, _ = headerColor.Fprintf(out, "=== %s\n", d.Name)
	for _, line := range strings.Split(strings.TrimRight(d.Diff, "\n"), "\n") {
		switch trimmed := strings.TrimLeft(line, " \t"); {
		case strings.HasPrefix(trimmed, "-"):
			_, _ = removedColor.Fprintln(out, line)
		case strings.HasPrefix(trimmed, "+"):
			_, _ = addedColor.Fprintln(out, line)
		default:
			_, _ = fmt.Fprintln(out, line)
		}
	}
}
