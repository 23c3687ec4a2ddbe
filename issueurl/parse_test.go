package issueurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	issue := sampleIssue(t)
	issue.Title("second title with ünïcödé & symbols: 100%")
	issue.Body("")

	link, err := issue.URL()
	require.NoError(t, err)

	parsed, err := Parse(link)
	require.NoError(t, err)

	assert.Equal(t, issue.Owner(), parsed.Owner())
	assert.Equal(t, issue.Name(), parsed.Name())
	assert.Equal(t, issue.Params(), parsed.Params())

	again, err := parsed.URL()
	require.NoError(t, err)
	assert.Equal(t, link, again)
}

func TestParseSample(t *testing.T) {
	parsed, err := Parse(githubIssueLink)
	require.NoError(t, err)

	assert.Equal(t, "EstebanBorai", parsed.Owner())
	assert.Equal(t, "github-issue-url", parsed.Name())
	assert.Equal(t, []Param{
		{Key: FieldTitle, Value: sampleIssueTitle},
		{Key: FieldBody, Value: sampleIssueBody},
		{Key: FieldTemplate, Value: "bug_report.md"},
		{Key: FieldLabels, Value: "bug,production,high-severity"},
		{Key: FieldAssignee, Value: "EstebanBorai"},
		{Key: FieldMilestone, Value: "1"},
		{Key: FieldProjects, Value: "1"},
	}, parsed.Params())
}

func TestParseWithoutQuery(t *testing.T) {
	parsed, err := Parse("https://github.com/owner/repo/issues/new")
	require.NoError(t, err)

	assert.Equal(t, "owner", parsed.Owner())
	assert.Equal(t, "repo", parsed.Name())
	assert.Empty(t, parsed.Params())
}

func TestParseEscapedPath(t *testing.T) {
	issue, err := New("my repo", "some owner")
	require.NoError(t, err)

	link, err := issue.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/some%20owner/my%20repo/issues/new", link)

	parsed, err := Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "some owner", parsed.Owner())
	assert.Equal(t, "my repo", parsed.Name())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		wantErr error
	}{
		{name: "wrong scheme", rawURL: "http://github.com/owner/repo/issues/new"},
		{name: "wrong host", rawURL: "https://gitlab.com/owner/repo/issues/new"},
		{name: "issue page", rawURL: "https://github.com/owner/repo/issues/42"},
		{name: "repository page", rawURL: "https://github.com/owner/repo"},
		{name: "unknown field", rawURL: "https://github.com/owner/repo/issues/new?title=a&state=open"},
		{name: "bad query escape", rawURL: "https://github.com/owner/repo/issues/new?title=%zz"},
		{name: "bad url", rawURL: "https://github.com/owner/re\npo/issues/new"},
		{name: "empty owner", rawURL: "https://github.com//repo/issues/new", wantErr: ErrEmptyRepositoryOwner},
		{name: "empty name", rawURL: "https://github.com/owner//issues/new", wantErr: ErrEmptyRepositoryName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.rawURL)
			require.Error(t, err)
			assert.Nil(t, parsed)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			var parseErr *URLParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
