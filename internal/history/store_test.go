package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpm/prefill/internal/store"
	"github.com/mpm/prefill/issueurl"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))

	return NewSQLiteStore(db)
}

func newTestLink(t *testing.T, owner, repo, title string, createdAt time.Time) *Link {
	t.Helper()

	issue, err := issueurl.New(repo, owner)
	require.NoError(t, err)
	issue.Labels("bug")
	if title != "" {
		issue.Title(title)
	}

	url, err := issue.URL()
	require.NoError(t, err)

	l := NewLink(issue, url)
	l.CreatedAt = createdAt
	return l
}

func TestNewLink(t *testing.T) {
	issue, err := issueurl.New("hello-world", "octocat")
	require.NoError(t, err)
	issue.Body("body")
	issue.Title("first")
	issue.Title("second")

	l := NewLink(issue, "https://example.invalid")

	assert.NoError(t, l.Validate())
	assert.Equal(t, "octocat/hello-world", l.RepoFullName())
	assert.Equal(t, "first", l.Title)
	assert.WithinDuration(t, time.Now(), l.CreatedAt, time.Minute)
}

func TestLinkValidate(t *testing.T) {
	base := Link{ID: "6f1c2b7e-3e0b-4c55-9a76-3c1f0d1e2a44", RepoOwner: "o", RepoName: "r", URL: "u"}
	require.NoError(t, base.Validate())

	mutations := map[string]func(l *Link){
		"missing id":    func(l *Link) { l.ID = "" },
		"malformed id":  func(l *Link) { l.ID = "not-a-uuid" },
		"missing owner": func(l *Link) { l.RepoOwner = "" },
		"missing name":  func(l *Link) { l.RepoName = "" },
		"missing url":   func(l *Link) { l.URL = "" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			l := base
			mutate(&l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestSQLiteStoreRecordGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	l := newTestLink(t, "octocat", "hello-world", "Crash", time.Now().UTC())
	l.Draft = "crash"
	require.NoError(t, s.Record(ctx, l))

	got, err := s.Get(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, l.URL, got.URL)
	assert.Equal(t, "Crash", got.Title)
	assert.Equal(t, "crash", got.Draft)
	assert.WithinDuration(t, l.CreatedAt, got.CreatedAt, time.Second)

	missing, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStoreRecordInvalid(t *testing.T) {
	s := setupTestStore(t)

	err := s.Record(context.Background(), &Link{ID: "nope"})
	assert.Error(t, err)
}

func TestSQLiteStoreListAndCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	oldest := newTestLink(t, "octocat", "hello-world", "oldest", now.Add(-2*time.Hour))
	middle := newTestLink(t, "octocat", "spoon-knife", "middle", now.Add(-time.Hour))
	newest := newTestLink(t, "octocat", "hello-world", "newest", now)
	for _, l := range []*Link{oldest, middle, newest} {
		require.NoError(t, s.Record(ctx, l))
	}

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(all))

	repo, err := s.List(ctx, Filter{RepoOwner: "octocat", RepoName: "hello-world"})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "oldest"}, titles(repo))

	limited, err := s.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest"}, titles(limited))

	count, err := s.Count(ctx, Filter{RepoName: "spoon-knife"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSQLiteStoreDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	l := newTestLink(t, "octocat", "hello-world", "", time.Now().UTC())
	require.NoError(t, s.Record(ctx, l))

	require.NoError(t, s.Delete(ctx, l.ID))
	assert.ErrorIs(t, s.Delete(ctx, l.ID), ErrNotFound)
}

func TestSQLiteStoreClear(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.Record(ctx, newTestLink(t, "octocat", "hello-world", "a", now)))
	require.NoError(t, s.Record(ctx, newTestLink(t, "octocat", "hello-world", "b", now)))
	require.NoError(t, s.Record(ctx, newTestLink(t, "hubot", "chatops", "c", now)))

	removed, err := s.Clear(ctx, Filter{RepoOwner: "octocat", RepoName: "hello-world"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	remaining, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, titles(remaining))

	removed, err = s.Clear(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func titles(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Title)
	}
	return out
}
