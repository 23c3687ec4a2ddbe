// Package issueurl builds prefilled "New Issue" URLs for GitHub repositories.
//
// GitHub prefills the issue form when certain query parameters are present
// in https://github.com/<owner>/<repository>/issues/new. An Issue collects
// those parameters in the order they are set and renders the final link:
//
//	issue, err := issueurl.New("github-issue-url", "EstebanBorai")
//	if err != nil {
//		return err
//	}
//	issue.Title("Null: The Billion Dollar Mistake")
//	issue.Labels("bug,production,high-severity")
//	link, err := issue.URL()
//
// Values are passed through untouched; GitHub decides what to do with a
// milestone or project that does not exist.
package issueurl

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	scheme = "https"
	host   = "github.com"
)

// Field is the name of a query parameter understood by the issue form.
type Field string

const (
	FieldTitle     Field = "title"
	FieldBody      Field = "body"
	FieldLabels    Field = "labels"
	FieldMilestone Field = "milestone"
	FieldProjects  Field = "projects"
	FieldAssignee  Field = "assignee"
	FieldTemplate  Field = "template"
)

// Fields returns every recognised field.
func Fields() []Field {
	return []Field{
		FieldTitle,
		FieldBody,
		FieldLabels,
		FieldMilestone,
		FieldProjects,
		FieldAssignee,
		FieldTemplate,
	}
}

func (f Field) valid() bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// Param is a single query parameter of the issue URL.
type Param struct {
	Key   Field
	Value string
}

// Issue holds the repository a new issue is opened on and the fields to
// prefill. Params keep insertion order and may repeat a key.
//
// An Issue is not safe for concurrent mutation.
type Issue struct {
	repositoryName  string
	repositoryOwner string
	params          []Param
}

// New creates an Issue for the repository owned by repositoryOwner.
// The name is checked before the owner.
func New(repositoryName, repositoryOwner string) (*Issue, error) {
	if repositoryName == "" {
		return nil, ErrEmptyRepositoryName
	}
	if repositoryOwner == "" {
		return nil, ErrEmptyRepositoryOwner
	}

	return &Issue{
		repositoryName:  repositoryName,
		repositoryOwner: repositoryOwner,
	}, nil
}

// Name returns the repository name.
func (i *Issue) Name() string {
	return i.repositoryName
}

// Owner returns the user or organization owning the repository.
func (i *Issue) Owner() string {
	return i.repositoryOwner
}

// Params returns a copy of the fields set so far, in insertion order.
func (i *Issue) Params() []Param {
	params := make([]Param, len(i.params))
	copy(params, i.params)
	return params
}

// Assignee sets the username of the issue's assignee.
//
// The issue author requires write access to the repository for GitHub to
// honour it.
func (i *Issue) Assignee(assignee string) {
	i.add(FieldAssignee, assignee)
}

// Body sets the prefilled issue body.
func (i *Issue) Body(body string) {
	i.add(FieldBody, body)
}

// Labels sets the issue labels, separated by commas,
// e.g. "bug,production,high-severity". Requires write access.
func (i *Issue) Labels(labels string) {
	i.add(FieldLabels, labels)
}

// Milestone sets the milestone number as found in
// https://github.com/<owner>/<repository>/milestone/<id>. Requires write access.
func (i *Issue) Milestone(milestone string) {
	i.add(FieldMilestone, milestone)
}

// Projects sets the comma separated project numbers the issue is linked to,
// as found in https://github.com/<owner>/<repository>/projects/<id>.
// Requires write access.
func (i *Issue) Projects(projects string) {
	i.add(FieldProjects, projects)
}

// Title sets the prefilled issue title.
func (i *Issue) Title(title string) {
	i.add(FieldTitle, title)
}

// Template sets the issue template file name. For
// .github/ISSUE_TEMPLATE/bugs.md the value is "bugs.md".
func (i *Issue) Template(template string) {
	i.add(FieldTemplate, template)
}

func (i *Issue) add(key Field, value string) {
	i.params = append(i.params, Param{Key: key, Value: value})
}

// URL renders the issue link. Parameters appear in the order they were set
// and values are query-escaped. With no parameters the link has no query.
func (i *Issue) URL() (string, error) {
	base := fmt.Sprintf("%s://%s/%s/%s/issues/new", scheme, host, i.repositoryOwner, i.repositoryName)

	u, err := url.Parse(base)
	if err != nil {
		return "", newURLParseError(err)
	}

	if len(i.params) == 0 {
		return u.String(), nil
	}

	var sb strings.Builder
	sb.WriteString(u.RawQuery)
	for _, p := range i.params {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(string(p.Key)))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	u.RawQuery = sb.String()

	return u.String(), nil
}
