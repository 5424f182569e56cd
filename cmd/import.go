package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/panecode/internal/presentation"
)

var importName string

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Create a project from a directory tree",
	Long: `Create a project from the text files under a directory and print it as JSON.

Hidden files and directories, binary files and files over 1 MiB are skipped.

Examples:
  # Import the current directory under its base name
  panecode import .

  # Import with an explicit name
  panecode import ~/src/demo --name "Demo App"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		result, err := s.importer.Import(cmd.Context(), trimmedArg(args, 0), importName)
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatImportResult(presentation.FromImportResult(result))
	},
}

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Project name (default: the directory's base name)")
	rootCmd.AddCommand(importCmd)
}
