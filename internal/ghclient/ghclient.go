// Package ghclient talks to the GitHub GraphQL API and the REST notifications endpoint.
package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

const (
	graphQLPath       = "/graphql"
	notificationsPath = "/notifications"
	notificationsPage = 100
	defaultUserAgent  = "gitstreak"
	defaultTimeout    = 15 * time.Second
	defaultRetries    = 3
)

// Errors reported by the API that callers may want to handle.
var (
	ErrMissingToken         = errors.New("a GitHub token is required (set GITSTREAK_TOKEN)")
	ErrBadCredentials       = errors.New("seems like there is some issue with token")
	ErrUserNotFound         = errors.New("could not find a user")
	ErrMissingContributions = errors.New("failed to retrieve contributions, this is likely a GitHub API issue")
)

const userDetailsQuery = `query($login: String!) {
  user(login: $login) {
    login
    name
    location
    followers { totalCount }
    following { totalCount }
  }
}`

const contributionQuery = `query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    createdAt
    contributionsCollection(from: $from, to: $to) {
      contributionYears
      contributionCalendar {
        weeks {
          contributionDays {
            contributionCount
            date
          }
        }
      }
    }
  }
}`

// Client is a GraphClient backed by net/http.
type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	userAgent string
	retries   uint64
}

var _ contract.GraphClient = &Client{} // Compile-time check

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxRetries sets how many times transient failures are retried.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.retries = n }
}

// New creates a client for the API rooted at baseURL (e.g. https://api.github.com).
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		userAgent: defaultUserAgent,
		retries:   defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type graphQLErrors struct {
	Errors []graphQLError `json:"errors"`
}

type apiError struct {
	Message string `json:"message"`
}

type userDetailsResponse struct {
	Data struct {
		User *struct {
			Login     string `json:"login"`
			Name      string `json:"name"`
			Location  string `json:"location"`
			Followers struct {
				TotalCount int `json:"totalCount"`
			} `json:"followers"`
			Following struct {
				TotalCount int `json:"totalCount"`
			} `json:"following"`
		} `json:"user"`
	} `json:"data"`
}

// FetchUser returns the public profile of a login.
func (c *Client) FetchUser(ctx context.Context, login string) (schema.UserDetails, error) {
	body, err := c.do(ctx, userDetailsQuery, map[string]any{"login": login})
	if err != nil {
		return schema.UserDetails{}, fmt.Errorf("fetch user %s: %w", login, err)
	}

	var resp userDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return schema.UserDetails{}, fmt.Errorf("decode user: %w", err)
	}
	if resp.Data.User == nil {
		return schema.UserDetails{}, fmt.Errorf("fetch user %s: %w", login, ErrUserNotFound)
	}

	u := resp.Data.User
	return schema.UserDetails{
		Login:     u.Login,
		Name:      u.Name,
		Location:  u.Location,
		Followers: u.Followers.TotalCount,
		Following: u.Following.TotalCount,
	}, nil
}

// FetchContributionGraph returns the contribution calendar between from and to.
func (c *Client) FetchContributionGraph(ctx context.Context, login string, from, to time.Time) (schema.ActivityGraph, error) {
	vars := map[string]any{
		"login": login,
		"from":  from.UTC().Format(time.RFC3339),
		"to":    to.UTC().Format(time.RFC3339),
	}
	body, err := c.do(ctx, contributionQuery, vars)
	if err != nil {
		return schema.ActivityGraph{}, fmt.Errorf("fetch contributions %s: %w", login, err)
	}

	var graph schema.ActivityGraph
	if err := json.Unmarshal(body, &graph); err != nil {
		return schema.ActivityGraph{}, fmt.Errorf("decode contributions: %w", err)
	}
	if graph.CreatedAt() == "" {
		return schema.ActivityGraph{}, fmt.Errorf("fetch contributions %s: %w", login, ErrMissingContributions)
	}
	return graph, nil
}

// FetchNotifications returns the notifications the token owner participates in,
// updated after since. A zero since lists the whole inbox page.
func (c *Client) FetchNotifications(ctx context.Context, since time.Time) ([]schema.Notification, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}
	query := url.Values{}
	query.Set("participating", "true")
	query.Set("per_page", strconv.Itoa(notificationsPage))
	if !since.IsZero() {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}
	endpoint := c.baseURL + notificationsPath + "?" + query.Encode()

	body, err := c.withRetry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("new request: %w", err))
		}
		c.applyHeaders(req)
		req.Header.Set("Accept", "application/vnd.github+json")
		return c.roundTrip(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}

	var items []schema.Notification
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return items, nil
}

// do posts a query and returns the raw response body, retrying transient failures.
func (c *Client) do(ctx context.Context, query string, vars map[string]any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return c.withRetry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+graphQLPath, bytes.NewReader(payload))
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("new request: %w", err))
		}
		c.applyHeaders(req)
		body, err := c.roundTrip(req)
		if err != nil {
			return nil, err
		}
		return body, checkGraphQLError(body)
	})
}

// withRetry runs attempt with exponential backoff until it succeeds,
// fails permanently or runs out of retries.
func (c *Client) withRetry(ctx context.Context, attempt func() ([]byte, error)) ([]byte, error) {
	var body []byte
	operation := func() error {
		b, err := attempt()
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = 20 * time.Second
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, c.retries), ctx)
	if err := backoff.Retry(operation, retry); err != nil {
		return nil, err
	}
	return body, nil
}

// roundTrip performs one request. Errors that retrying cannot fix are permanent.
func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := statusError(resp.StatusCode, body)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}
	return body, nil
}

// checkGraphQLError reports the first error of a GraphQL response body, if any.
func checkGraphQLError(body []byte) error {
	var gqlErrs graphQLErrors
	if err := json.Unmarshal(body, &gqlErrs); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if len(gqlErrs.Errors) > 0 {
		first := gqlErrs.Errors[0]
		if first.Type == "NOT_FOUND" {
			return backoff.Permanent(ErrUserNotFound)
		}
		return backoff.Permanent(fmt.Errorf("graphql: %s", first.Message))
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github.v4.idl")
	req.Header.Set("User-Agent", c.userAgent)
}

// statusError maps a non-2xx response to an error, recognizing bad credentials.
func statusError(status int, body []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	if strings.EqualFold(strings.TrimSpace(apiErr.Message), "bad credentials") {
		return ErrBadCredentials
	}
	if apiErr.Message != "" {
		return fmt.Errorf("unexpected status %d: %s", status, apiErr.Message)
	}
	return fmt.Errorf("unexpected status %d", status)
}
