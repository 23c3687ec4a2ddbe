package issueurl

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	githubIssueLink  = "https://github.com/EstebanBorai/github-issue-url/issues/new?title=Null%3A+The+Billion+Dollar+Mistake&body=Null+is+a+flag.+It+represents+different+situations+depending+on+the+context+in+which+it+is+used+and+invoked.+This+yields+the+most+serious+error+in+software+development%3A+Coupling+a+hidden+decision+in+the+contract+between+an+object+and+who+uses+it.&template=bug_report.md&labels=bug%2Cproduction%2Chigh-severity&assignee=EstebanBorai&milestone=1&projects=1"
	sampleIssueBody  = "Null is a flag. It represents different situations depending on the context in which it is used and invoked. This yields the most serious error in software development: Coupling a hidden decision in the contract between an object and who uses it."
	sampleIssueTitle = "Null: The Billion Dollar Mistake"
)

func sampleIssue(t *testing.T) *Issue {
	t.Helper()

	issue, err := New("github-issue-url", "EstebanBorai")
	require.NoError(t, err)

	issue.Title(sampleIssueTitle)
	issue.Body(sampleIssueBody)
	issue.Template("bug_report.md")
	issue.Labels("bug,production,high-severity")
	issue.Assignee("EstebanBorai")
	issue.Milestone("1")
	issue.Projects("1")

	return issue
}

func TestIssueURL(t *testing.T) {
	issue := sampleIssue(t)

	have, err := issue.URL()
	require.NoError(t, err)
	assert.Equal(t, githubIssueLink, have)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		owner   string
		wantErr error
		wantMsg string
	}{
		{
			name:  "valid",
			repo:  "github-issue-url",
			owner: "EstebanBorai",
		},
		{
			name:    "empty owner",
			repo:    "github-issue-url",
			owner:   "",
			wantErr: ErrEmptyRepositoryOwner,
			wantMsg: "Repository owner name is not defined",
		},
		{
			name:    "empty name",
			repo:    "",
			owner:   "EstebanBorai",
			wantErr: ErrEmptyRepositoryName,
			wantMsg: "Repository name is not defined",
		},
		{
			name:    "name is checked first",
			repo:    "",
			owner:   "",
			wantErr: ErrEmptyRepositoryName,
			wantMsg: "Repository name is not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, err := New(tt.repo, tt.owner)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.repo, issue.Name())
				assert.Equal(t, tt.owner, issue.Owner())
				assert.Empty(t, issue.Params())
				return
			}

			require.Error(t, err)
			assert.Nil(t, issue)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestIssueURLWithoutParams(t *testing.T) {
	issue, err := New("repo", "owner")
	require.NoError(t, err)

	have, err := issue.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo/issues/new", have)
}

func TestIssueURLIsIdempotent(t *testing.T) {
	issue := sampleIssue(t)

	first, err := issue.URL()
	require.NoError(t, err)
	second, err := issue.URL()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIssueURLKeepsDuplicateKeys(t *testing.T) {
	issue, err := New("repo", "owner")
	require.NoError(t, err)

	issue.Title("A")
	issue.Labels("bug")
	issue.Title("B")

	have, err := issue.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo/issues/new?title=A&labels=bug&title=B", have)
}

func TestIssueURLEscapesValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "space", value: "a b", want: "title=a+b"},
		{name: "comma", value: "a,b", want: "title=a%2Cb"},
		{name: "colon", value: "a:b", want: "title=a%3Ab"},
		{name: "query delimiters", value: "a&b=c", want: "title=a%26b%3Dc"},
		{name: "multi-byte", value: "café ☕", want: "title=caf%C3%A9+%E2%98%95"},
		{name: "unreserved", value: "bug_report.md-v1~", want: "title=bug_report.md-v1~"},
		{name: "empty", value: "", want: "title="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, err := New("repo", "owner")
			require.NoError(t, err)
			issue.Title(tt.value)

			have, err := issue.URL()
			require.NoError(t, err)
			assert.Equal(t, "https://github.com/owner/repo/issues/new?"+tt.want, have)
		})
	}
}

func TestIssueURLParseError(t *testing.T) {
	tests := []struct {
		name  string
		owner string
	}{
		{name: "invalid escape", owner: "bad%zzowner"},
		{name: "control character", owner: "bad\nowner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, err := New("repo", tt.owner)
			require.NoError(t, err)
			issue.Title("title")

			have, err := issue.URL()
			require.Error(t, err)
			assert.Empty(t, have)

			var parseErr *URLParseError
			require.ErrorAs(t, err, &parseErr)
			assert.NotEmpty(t, parseErr.Detail)
			assert.Contains(t, err.Error(), "Failed to parse URL with provided params. ")

			var urlErr *url.Error
			assert.ErrorAs(t, err, &urlErr)
		})
	}
}

func TestIssueParamsReturnsCopy(t *testing.T) {
	issue, err := New("repo", "owner")
	require.NoError(t, err)
	issue.Title("original")

	params := issue.Params()
	params[0].Value = "changed"

	assert.Equal(t, []Param{{Key: FieldTitle, Value: "original"}}, issue.Params())
}

func TestIssueSettersUseFieldNames(t *testing.T) {
	issue, err := New("repo", "owner")
	require.NoError(t, err)

	issue.Assignee("a")
	issue.Body("b")
	issue.Labels("l")
	issue.Milestone("m")
	issue.Projects("p")
	issue.Title("t")
	issue.Template("tpl")

	assert.Equal(t, []Param{
		{Key: FieldAssignee, Value: "a"},
		{Key: FieldBody, Value: "b"},
		{Key: FieldLabels, Value: "l"},
		{Key: FieldMilestone, Value: "m"},
		{Key: FieldProjects, Value: "p"},
		{Key: FieldTitle, Value: "t"},
		{Key: FieldTemplate, Value: "tpl"},
	}, issue.Params())
}
