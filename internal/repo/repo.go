// Package repo works out which GitHub repository a checkout belongs to.
package repo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Info identifies a GitHub repository.
type Info struct {
	Owner string
	Name  string
}

// FullName returns owner/name.
func (i *Info) FullName() string {
	return fmt.Sprintf("%s/%s", i.Owner, i.Name)
}

var (
	httpsPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshPattern   = regexp.MustCompile(`^(?:ssh://)?git@github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?$`)
)

// ParseRemoteURL extracts owner and name from a GitHub remote URL:
//   - https://github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
//   - ssh://git@github.com/owner/repo(.git)
func ParseRemoteURL(remote string) (*Info, error) {
	remote = strings.TrimSpace(remote)

	for _, pattern := range []*regexp.Regexp{httpsPattern, sshPattern} {
		if m := pattern.FindStringSubmatch(remote); len(m) == 3 {
			return &Info{Owner: m[1], Name: m[2]}, nil
		}
	}

	return nil, fmt.Errorf("not a GitHub remote: %s", remote)
}

// ParseFullName splits "owner/name".
func ParseFullName(fullName string) (*Info, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid repository %q: expected owner/name", fullName)
	}
	return &Info{Owner: owner, Name: name}, nil
}

// Detect reads the origin remote of the git checkout in dir.
func Detect(ctx context.Context, dir string) (*Info, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git remote get-url origin: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("git remote get-url origin: %w", err)
	}

	return ParseRemoteURL(string(out))
}
