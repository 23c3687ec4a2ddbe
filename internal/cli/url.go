package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpm/prefill/internal/draft"
	"github.com/mpm/prefill/internal/history"
	"github.com/mpm/prefill/internal/repo"
	"github.com/mpm/prefill/internal/store"
	"github.com/mpm/prefill/issueurl"
)

// detectRepo is swapped out in tests.
var detectRepo = repo.Detect

type urlOptions struct {
	owner     string
	repo      string
	title     string
	body      string
	bodyFile  string
	template  string
	labels    []string
	assignee  string
	milestone string
	projects  []string
	draftFile string
	request   string
	noHistory bool
}

func newURLCmd() *cobra.Command {
	var opts urlOptions

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Build a prefilled issue link",
		Long: `Builds a link to the "New Issue" page of a GitHub repository with the given
fields prefilled and prints it.

The repository comes from --owner/--repo (or --repo owner/name), then from the
configured defaults, then from the origin remote of the current git checkout.
Flags override values read from --draft or --request.`,
		Example: `  prefill url --repo octocat/hello-world --title "Crash on start" --label bug --label crash
  prefill url --draft bug.yml --body-file - < stacktrace.txt
  prefill url --repo octocat/hello-world --request issue.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.owner, "owner", "", "repository owner (user or organization)")
	f.StringVar(&opts.repo, "repo", "", "repository name, or owner/name")
	f.StringVar(&opts.title, "title", "", "issue title")
	f.StringVar(&opts.body, "body", "", "issue body")
	f.StringVar(&opts.bodyFile, "body-file", "", "read the issue body from a file ('-' for stdin)")
	f.StringVar(&opts.template, "template", "", "issue template file name, e.g. bug_report.md")
	f.StringArrayVar(&opts.labels, "label", nil, "label to add (repeatable)")
	f.StringVar(&opts.assignee, "assignee", "", "username of the assignee")
	f.StringVar(&opts.milestone, "milestone", "", "milestone number")
	f.StringArrayVar(&opts.projects, "project", nil, "project number (repeatable)")
	f.StringVar(&opts.draftFile, "draft", "", "YAML draft file to start from")
	f.StringVar(&opts.request, "request", "", "JSON body of a REST API create-issue request to start from")
	f.BoolVar(&opts.noHistory, "no-history", false, "do not record the link in history")

	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	cmd.MarkFlagsMutuallyExclusive("draft", "request")

	return cmd
}

func runURL(cmd *cobra.Command, opts *urlOptions) error {
	d := &draft.Draft{}
	switch {
	case opts.draftFile != "":
		loaded, err := draft.LoadFile(opts.draftFile)
		if err != nil {
			return err
		}
		d = loaded
	case opts.request != "":
		loaded, err := draft.LoadIssueRequestFile(opts.request)
		if err != nil {
			return err
		}
		d = loaded
	}

	if err := opts.apply(d, cmd.InOrStdin()); err != nil {
		return err
	}

	link, err := buildLink(cmd.Context(), d)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), link.url)

	if !opts.noHistory {
		recordLink(cmd.Context(), link, "")
	}

	return nil
}

// apply overlays the flags that were set onto d.
func (o *urlOptions) apply(d *draft.Draft, stdin io.Reader) error {
	owner, name := o.owner, o.repo
	if strings.Contains(name, "/") {
		info, err := repo.ParseFullName(name)
		if err != nil {
			return err
		}
		if owner != "" && owner != info.Owner {
			return fmt.Errorf("--owner %q conflicts with --repo %q", owner, name)
		}
		owner, name = info.Owner, info.Name
	}

	if owner != "" {
		d.Owner = owner
	}
	if name != "" {
		d.Repo = name
	}
	if o.title != "" {
		d.Title = o.title
	}

	switch {
	case o.body != "":
		d.Body = o.body
	case o.bodyFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		d.Body = strings.TrimRight(string(data), "\n")
	case o.bodyFile != "":
		data, err := os.ReadFile(o.bodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
		d.Body = strings.TrimRight(string(data), "\n")
	}

	if o.template != "" {
		d.Template = o.template
	}
	if len(o.labels) > 0 {
		d.Labels = o.labels
	}
	if o.assignee != "" {
		d.Assignee = o.assignee
	}
	if o.milestone != "" {
		d.Milestone = o.milestone
	}
	if len(o.projects) > 0 {
		d.Projects = o.projects
	}

	return nil
}

type builtLink struct {
	issue *issueurl.Issue
	url   string
}

// buildLink applies configured defaults, falls back to the git remote for
// the repository, and renders the link.
func buildLink(ctx context.Context, d *draft.Draft) (*builtLink, error) {
	defaults := appConfig.Defaults
	d.ApplyDefaults(defaults.Owner, defaults.Repo, defaults.Labels, defaults.Assignee, defaults.Template)

	if d.Owner == "" || d.Repo == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		info, err := detectRepo(ctx, cwd)
		if err != nil {
			appLog.Debug("repository detection failed", "dir", cwd, "error", err)
		} else {
			appLog.Debug("repository detected from git remote", "repo", info.FullName())
			d.ApplyDefaults(info.Owner, info.Name, "", "", "")
		}
	}

	issue, err := d.Issue()
	if err != nil {
		return nil, err
	}

	url, err := issue.URL()
	if err != nil {
		return nil, err
	}

	appLog.Debug("issue link built",
		"repo", d.RepoFullName(),
		"params", len(issue.Params()),
	)

	return &builtLink{issue: issue, url: url}, nil
}

// openLinkStore opens the database and returns a link store.
// The caller must call the returned cleanup function when done.
func openLinkStore(ctx context.Context) (*history.SQLiteStore, func(), error) {
	db, err := store.Open(ctx, appConfig.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	cleanup := func() { db.Close() }
	return history.NewSQLiteStore(db), cleanup, nil
}

// recordLink saves a link to history. Failures are logged, not returned:
// the link has already been printed.
func recordLink(ctx context.Context, link *builtLink, draftName string) {
	if !appConfig.History.Enabled {
		return
	}

	links, cleanup, err := openLinkStore(ctx)
	if err != nil {
		appLog.Warn("history unavailable", "error", err)
		return
	}
	defer cleanup()

	l := history.NewLink(link.issue, link.url)
	l.Draft = draftName

	if err := links.Record(ctx, l); err != nil {
		appLog.Warn("failed to record link", "error", err)
		return
	}

	appLog.Debug("link recorded", "id", l.ID)
}
