package gateway

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidFolderName  = errors.New("invalid folder name")
	ErrIncompleteEndpoint = errors.New("incomplete endpoint")
)

// Result is the outcome of a single MKCOL or DELETE exchange.
// Status is zero when no response was received.
type Result struct {
	OK     bool
	Status int
	Err    error
}

// ListResult carries the raw PROPFIND body. Data is never nil; it is empty on failure.
type ListResult struct {
	Result
	Data []byte
}

type StatusError struct {
	Method string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status code not ok, code:%d, body:%s", e.Method, e.Code, e.Body)
}

type IGateway interface {
	EnsureFolder(ctx context.Context, name string) *Result
	ListFolder(ctx context.Context, name string) *ListResult
	DeleteFolder(ctx context.Context, name string) *Result
}

func New(opts ...Option) IGateway {
	c := &config{
		Client: defaultHttpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return &defaultGateway{c: c}
}
