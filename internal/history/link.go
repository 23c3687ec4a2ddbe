// Package history records the issue links prefill has generated.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpm/prefill/issueurl"
)

// Link is a generated issue link.
type Link struct {
	// ID is a random UUID
	ID string

	RepoOwner string
	RepoName  string

	// Title is the first title set on the issue, empty if none
	Title string

	// Draft is the name of the saved draft the link was built from, if any
	Draft string

	URL       string
	CreatedAt time.Time
}

// NewLink records the link rendered for issue.
func NewLink(issue *issueurl.Issue, url string) *Link {
	link := &Link{
		ID:        uuid.NewString(),
		RepoOwner: issue.Owner(),
		RepoName:  issue.Name(),
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	for _, p := range issue.Params() {
		if p.Key == issueurl.FieldTitle {
			link.Title = p.Value
			break
		}
	}

	return link
}

// RepoFullName returns owner/name.
func (l *Link) RepoFullName() string {
	return fmt.Sprintf("%s/%s", l.RepoOwner, l.RepoName)
}

// Validate checks the link has everything the store needs.
func (l *Link) Validate() error {
	if l.ID == "" {
		return errors.New("link ID is required")
	}
	if _, err := uuid.Parse(l.ID); err != nil {
		return fmt.Errorf("link ID must be a UUID: %w", err)
	}
	if l.RepoOwner == "" {
		return errors.New("repository owner is required")
	}
	if l.RepoName == "" {
		return errors.New("repository name is required")
	}
	if l.URL == "" {
		return errors.New("URL is required")
	}
	return nil
}
