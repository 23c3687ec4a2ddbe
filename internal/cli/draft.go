package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpm/prefill/internal/draft"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Saved issue draft commands",
		Long: `Drafts are YAML files describing an issue to prefill:

  owner: octocat
  repo: hello-world
  title: "Crash on start"
  template: bug_report.md
  labels: [bug, crash]
  milestone: "3"`,
	}

	cmd.AddCommand(newDraftSaveCmd())
	cmd.AddCommand(newDraftListCmd())
	cmd.AddCommand(newDraftShowCmd())
	cmd.AddCommand(newDraftURLCmd())
	cmd.AddCommand(newDraftDeleteCmd())

	return cmd
}

func draftStore() *draft.FileStore {
	return draft.NewFileStore(appConfig.DraftsDir)
}

func getDraft(cmd *cobra.Command, name string) (*draft.Draft, error) {
	d, err := draftStore().Get(cmd.Context(), name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("draft not found: %s", name)
	}
	return d, nil
}

func newDraftSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Save a YAML draft under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			d, err := draft.LoadFile(path)
			if err != nil {
				return err
			}

			if err := appConfig.EnsureDirectories(); err != nil {
				return err
			}

			if err := draftStore().Save(cmd.Context(), name, d); err != nil {
				return err
			}

			appLog.Info("draft saved", "name", name, "dir", appConfig.DraftsDir)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved draft: %s\n", name)
			return nil
		},
	}
}

func newDraftListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := draftStore()

			names, err := s.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No drafts found.")
				return nil
			}

			fmt.Fprintf(out, "%-24s  %-32s  %s\n", "NAME", "REPOSITORY", "TITLE")
			for _, name := range names {
				d, err := s.Get(cmd.Context(), name)
				if err != nil {
					return err
				}
				if d == nil {
					continue
				}

				repository := "-"
				if d.Owner != "" || d.Repo != "" {
					repository = d.RepoFullName()
				}
				fmt.Fprintf(out, "%-24s  %-32s  %s\n", name, truncate(repository, 32), truncate(d.Title, 50))
			}

			return nil
		},
	}
}

func newDraftShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getDraft(cmd, args[0])
			if err != nil {
				return err
			}

			data, err := d.Marshal()
			if err != nil {
				return err
			}

			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
}

func newDraftURLCmd() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "url <name>",
		Short: "Build the issue link for a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			d, err := getDraft(cmd, name)
			if err != nil {
				return err
			}

			link, err := buildLink(cmd.Context(), d)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), link.url)

			if !noHistory {
				recordLink(cmd.Context(), link, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the link in history")

	return cmd
}

func newDraftDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := draftStore().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft: %s\n", args[0])
			return nil
		},
	}
}
