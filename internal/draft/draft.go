// Package draft reads issue drafts and turns them into prefilled issue links.
package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/go-github/v50/github"
	"gopkg.in/yaml.v3"

	"github.com/mpm/prefill/issueurl"
)

// Draft describes an issue to prefill.
type Draft struct {
	Owner     string   `yaml:"owner,omitempty"`
	Repo      string   `yaml:"repo,omitempty"`
	Title     string   `yaml:"title,omitempty"`
	Body      string   `yaml:"body,omitempty"`
	Template  string   `yaml:"template,omitempty"`
	Labels    []string `yaml:"labels,omitempty"`
	Assignee  string   `yaml:"assignee,omitempty"`
	Milestone string   `yaml:"milestone,omitempty"`
	Projects  []string `yaml:"projects,omitempty"`
}

// Parse decodes a YAML draft.
func Parse(data []byte) (*Draft, error) {
	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return &d, nil
}

// LoadFile reads a YAML draft from disk.
func LoadFile(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the draft as YAML.
func (d *Draft) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize draft: %w", err)
	}
	return data, nil
}

// RepoFullName returns owner/repo.
func (d *Draft) RepoFullName() string {
	return fmt.Sprintf("%s/%s", d.Owner, d.Repo)
}

// ApplyDefaults fills fields left empty by the draft.
// labels is a comma separated list.
func (d *Draft) ApplyDefaults(owner, repo, labels, assignee, template string) {
	if d.Owner == "" {
		d.Owner = owner
	}
	if d.Repo == "" {
		d.Repo = repo
	}
	if len(d.Labels) == 0 && labels != "" {
		d.Labels = SplitList(labels)
	}
	if d.Assignee == "" {
		d.Assignee = assignee
	}
	if d.Template == "" {
		d.Template = template
	}
}

// Issue builds the issue for this draft. Empty fields are left out.
func (d *Draft) Issue() (*issueurl.Issue, error) {
	issue, err := issueurl.New(d.Repo, d.Owner)
	if err != nil {
		return nil, err
	}

	if d.Title != "" {
		issue.Title(d.Title)
	}
	if d.Body != "" {
		issue.Body(d.Body)
	}
	if d.Template != "" {
		issue.Template(d.Template)
	}
	if labels := JoinList(d.Labels); labels != "" {
		issue.Labels(labels)
	}
	if d.Assignee != "" {
		issue.Assignee(d.Assignee)
	}
	if d.Milestone != "" {
		issue.Milestone(d.Milestone)
	}
	if projects := JoinList(d.Projects); projects != "" {
		issue.Projects(projects)
	}

	return issue, nil
}

// FromIssueRequest converts a REST API issue request into a draft so it
// can be handed to a user as a link instead of being created with a token.
func FromIssueRequest(owner, repo string, req *github.IssueRequest) *Draft {
	d := &Draft{Owner: owner, Repo: repo}
	if req == nil {
		return d
	}

	d.Title = req.GetTitle()
	d.Body = req.GetBody()
	d.Assignee = req.GetAssignee()
	if d.Assignee == "" && req.Assignees != nil && len(*req.Assignees) > 0 {
		d.Assignee = (*req.Assignees)[0]
	}
	if req.Labels != nil {
		d.Labels = append([]string(nil), (*req.Labels)...)
	}
	if req.Milestone != nil {
		d.Milestone = strconv.Itoa(*req.Milestone)
	}

	return d
}

// LoadIssueRequestFile reads the JSON body of a REST "create an issue"
// request and converts it into a draft. Owner and repo are left empty.
func LoadIssueRequestFile(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read issue request: %w", err)
	}

	var req github.IssueRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse issue request %s: %w", path, err)
	}

	return FromIssueRequest("", "", &req), nil
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList joins entries with commas, dropping blank entries.
func JoinList(items []string) string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, ",")
}
