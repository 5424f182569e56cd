package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/panecode/internal/presentation"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List imported projects",
	Long: `List all imported projects as JSON.

Examples:
  panecode projects
  panecode projects | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStack(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		all, err := s.directory.List(cmd.Context())
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatProjects(presentation.FromDomainProjects(all))
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
