package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpm/prefill/internal/history"
	"github.com/mpm/prefill/internal/repo"
	"github.com/mpm/prefill/issueurl"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Generated link history commands",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

// repoFilter turns "owner/name" or "owner" into a filter.
func repoFilter(value string) (history.Filter, error) {
	if value == "" {
		return history.Filter{}, nil
	}
	if !strings.Contains(value, "/") {
		return history.Filter{RepoOwner: value}, nil
	}

	info, err := repo.ParseFullName(value)
	if err != nil {
		return history.Filter{}, err
	}
	return history.Filter{RepoOwner: info.Owner, RepoName: info.Name}, nil
}

func newHistoryListCmd() *cobra.Command {
	var (
		repository string
		limit      int
		urlsOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated links, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := repoFilter(repository)
			if err != nil {
				return err
			}
			filter.Limit = limit

			links, cleanup, err := openLinkStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := links.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if urlsOnly {
				for _, l := range entries {
					fmt.Fprintln(out, l.URL)
				}
				return nil
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No links found.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-30s  %-16s  %s\n", "ID", "REPOSITORY", "CREATED", "TITLE")
			fmt.Fprintln(out, strings.Repeat("-", 110))

			for _, l := range entries {
				fmt.Fprintf(out, "%-36s  %-30s  %-16s  %s\n",
					l.ID,
					truncate(l.RepoFullName(), 30),
					l.CreatedAt.Local().Format("2006-01-02 15:04"),
					truncate(l.Title, 40),
				)
			}

			if filter.Limit > 0 && len(entries) == filter.Limit {
				total, err := links.Count(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if total > len(entries) {
					fmt.Fprintf(out, "\nShowing %d of %d links\n", len(entries), total)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&repository, "repo", "", "Filter by repository (owner/repo or owner)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of links to show (0 for all)")
	cmd.Flags().BoolVar(&urlsOnly, "urls", false, "Print only the links")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a generated link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links, cleanup, err := openLinkStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			l, err := links.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if l == nil {
				return fmt.Errorf("link not found: %s", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:         %s\n", l.ID)
			fmt.Fprintf(out, "Repository: %s\n", l.RepoFullName())
			if l.Title != "" {
				fmt.Fprintf(out, "Title:      %s\n", l.Title)
			}
			if l.Draft != "" {
				fmt.Fprintf(out, "Draft:      %s\n", l.Draft)
			}
			fmt.Fprintf(out, "Created:    %s\n", l.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "URL:        %s\n", l.URL)

			issue, err := issueurl.Parse(l.URL)
			if err != nil {
				appLog.Debug("stored link does not parse", "id", l.ID, "error", err)
				return nil
			}
			if params := issue.Params(); len(params) > 0 {
				fmt.Fprintln(out, "Fields:")
				for _, p := range params {
					fmt.Fprintf(out, "  %-10s %s\n", string(p.Key)+":", p.Value)
				}
			}

			return nil
		},
	}
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a generated link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links, cleanup, err := openLinkStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := links.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, history.ErrNotFound) {
					return fmt.Errorf("link not found: %s", args[0])
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted link: %s\n", args[0])
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	var repository string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove generated links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := repoFilter(repository)
			if err != nil {
				return err
			}

			links, cleanup, err := openLinkStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := links.Clear(cmd.Context(), filter)
			if err != nil {
				return err
			}

			appLog.Info("history cleared", "removed", removed, "repo", repository)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d link(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&repository, "repo", "", "Only remove links for this repository (owner/repo or owner)")

	return cmd
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
