package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/panecode/internal/presentation"
	projectsdomain "github.com/zjrosen/panecode/internal/projects/domain"
)

var renameCmd = &cobra.Command{
	Use:   "rename <project> <name>",
	Short: "Rename a project",
	Long: `Change the display name of a project, given by ID or current name.

Examples:
  panecode rename demo "Demo App"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		ctx := cmd.Context()
		project, err := s.directory.Resolve(ctx, trimmedArg(args, 0))
		if err != nil {
			return fmt.Errorf("resolving project %q: %w", args[0], err)
		}
		if err := s.directory.Rename(ctx, project.ID(), trimmedArg(args, 1)); err != nil {
			return fmt.Errorf("renaming project: %w", err)
		}
		renamed, err := s.directory.Resolve(ctx, project.ID())
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatProjects(presentation.FromDomainProjects(
			[]*projectsdomain.Project{renamed},
		))
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
