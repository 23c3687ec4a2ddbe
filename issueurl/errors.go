package issueurl

import "errors"

var (
	// ErrEmptyRepositoryOwner is returned when the repository owner is empty.
	ErrEmptyRepositoryOwner = errors.New("Repository owner name is not defined")

	// ErrEmptyRepositoryName is returned when the repository name is empty.
	ErrEmptyRepositoryName = errors.New("Repository name is not defined")
)

// URLParseError is returned when the issue URL cannot be assembled or read back.
type URLParseError struct {
	// Detail is the parser's description of the failure.
	Detail string

	// Err is the underlying parser error, if any.
	Err error
}

func newURLParseError(err error) *URLParseError {
	return &URLParseError{Detail: err.Error(), Err: err}
}

func (e *URLParseError) Error() string {
	return "Failed to parse URL with provided params. " + e.Detail
}

func (e *URLParseError) Unwrap() error {
	return e.Err
}
