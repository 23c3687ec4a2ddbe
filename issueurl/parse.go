package issueurl

import (
	"fmt"
	"net/url"
	"strings"
)

// Parse reads a link produced by URL back into an Issue. Only
// https://github.com/<owner>/<name>/issues/new links carrying recognised
// fields are accepted.
func Parse(rawURL string) (*Issue, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, newURLParseError(err)
	}

	if u.Scheme != scheme || u.Host != host {
		return nil, &URLParseError{Detail: fmt.Sprintf("unexpected origin %s://%s", u.Scheme, u.Host)}
	}

	segments := strings.Split(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	if len(segments) != 4 || segments[2] != "issues" || segments[3] != "new" {
		return nil, &URLParseError{Detail: fmt.Sprintf("unexpected path %s", u.EscapedPath())}
	}

	owner, err := url.PathUnescape(segments[0])
	if err != nil {
		return nil, newURLParseError(err)
	}
	name, err := url.PathUnescape(segments[1])
	if err != nil {
		return nil, newURLParseError(err)
	}

	issue, err := New(name, owner)
	if err != nil {
		return nil, err
	}

	if err := issue.addQuery(u.RawQuery); err != nil {
		return nil, err
	}

	return issue, nil
}

// addQuery appends every pair of a raw query string in order. url.ParseQuery
// is not used because it loses ordering.
func (i *Issue) addQuery(rawQuery string) error {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return newURLParseError(err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return newURLParseError(err)
		}

		field := Field(key)
		if !field.valid() {
			return &URLParseError{Detail: fmt.Sprintf("unsupported query parameter %q", key)}
		}

		i.add(field, value)
	}

	return nil
}
