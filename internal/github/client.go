// Package github answers the collaborator-membership question using the
// go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// Authorizer reports whether a user is a collaborator on a repository.
//
// A false result always means the service explicitly said "not a
// collaborator". Anything else the service says, or failing to reach it,
// is returned as an error.
type Authorizer interface {
	IsCollaborator(ctx context.Context, repo vcs.Repository, username string) (bool, error)
}

// Compile-time interface satisfaction check.
var _ Authorizer = (*Client)(nil)

// StatusError reports an HTTP status the collaborator endpoint is not
// expected to return. It matches kerrors.ErrUnexpectedStatus.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%v (HTTP %d)", kerrors.ErrUnexpectedStatus, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error { return kerrors.ErrUnexpectedStatus }

// Client implements Authorizer against the GitHub REST API.
type Client struct {
	gh *gh.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL   string
	transport http.RoundTripper
	userAgent string
}

// WithBaseURL points the client at a different API root, such as an
// httptest server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithTransport sets the innermost HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. token auth (Authorization: token <credential>)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client)
//
// Returns ErrMissingToken when token is empty; no request is ever made
// without a credential.
func NewClient(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, kerrors.ErrMissingToken
	}

	o := options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	authTransport := &tokenTransport{token: token, base: o.transport}
	rateLimitClient := github_ratelimit.NewClient(authTransport)
	client := gh.NewClient(rateLimitClient)

	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing API base URL: %v", kerrors.ErrInvalidConfig, err)
		}
		client.BaseURL = u
	}
	if o.userAgent != "" {
		client.UserAgent = o.userAgent
	}

	return &Client{gh: client}, nil
}

// IsCollaborator calls GET /repos/{owner}/{name}/collaborators/{username}.
// 204 yields true, 404 yields false. Every other outcome is an error
// matching kerrors.ErrNetwork. Malformed coordinates are rejected with a
// configuration error before any request is made.
func (c *Client) IsCollaborator(ctx context.Context, repo vcs.Repository, username string) (bool, error) {
	// go-github does not escape path parameters.
	if err := repo.Validate(); err != nil {
		return false, err
	}
	if err := vcs.Identity(username).Validate(); err != nil {
		return false, err
	}

	isCollab, resp, err := c.gh.Repositories.IsCollaborator(ctx, repo.Owner, repo.Name, username)
	if err != nil {
		return false, classify(err)
	}

	if resp == nil {
		return false, fmt.Errorf("%w: empty response", kerrors.ErrServiceUnreachable)
	}

	switch {
	case isCollab && resp.StatusCode == http.StatusNoContent:
		return true, nil
	case !isCollab && resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, &StatusError{StatusCode: resp.StatusCode}
	}
}

// classify maps go-github errors onto the network error category.
func classify(err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return fmt.Errorf("%w: %v", kerrors.ErrRateLimited, err)
	case errors.As(err, &respErr) && respErr.Response != nil:
		return &StatusError{StatusCode: respErr.Response.StatusCode, Message: respErr.Message}
	default:
		return fmt.Errorf("%w: %v", kerrors.ErrServiceUnreachable, err)
	}
}

// tokenTransport adds the classic "token" Authorization scheme.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "token "+t.token)
	return t.base.RoundTrip(r)
}
