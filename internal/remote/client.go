// Package remote implements the client for the upstream users/posts JSON API.
//
// The upstream is a fixed REST-ish surface:
//
//	GET    {base}/users/      → array of user records
//	GET    {base}/posts/      → array of post records
//	POST   {base}/posts/      → echoes the created record with assigned id
//	PUT    {base}/posts/{id}  → echoes the updated record
//	DELETE {base}/posts/{id}  → status only
//
// Every operation is a single round trip: no retry, no idempotency key, and
// no client-imposed timeout — cancellation and deadlines belong to the
// caller's context. A failed round trip or an undecodable body comes back as
// apperror.ErrTransport; a non-2xx answer to a mutation comes back as
// apperror.ErrRejected carrying the status. Callers must branch on the error
// before touching the returned value.
package remote

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

	"github.com/rkovalev/cardwall/internal/apperror"
	"github.com/rkovalev/cardwall/internal/model"
)

// DefaultBaseURL is the public instance of the upstream API.
const DefaultBaseURL = "https://ajax.test-danit.com/api/json/"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Tests use this to
// point the client at an httptest server's client; production callers can
// use it to set a transport-level timeout if they want one.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// Client talks to one upstream API instance.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a Client bound to the provided base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("remote: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base URL: %w", err)
	}
	// ResolveReference needs the base path to end in a slash, otherwise the
	// last path segment gets replaced instead of appended to.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListUsers fetches the full user set.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.getJSON(ctx, "users/", &users); err != nil {
		return nil, apperror.Transport("list users", err)
	}
	return users, nil
}

// ListPosts fetches the full post set.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.getJSON(ctx, "posts/", &posts); err != nil {
		return nil, apperror.Transport("list posts", err)
	}
	return posts, nil
}

// CreatePost stores a new post attributed to userID and returns the record
// the upstream echoed back, including the server-assigned ID.
func (c *Client) CreatePost(ctx context.Context, userID int, title, body string) (*model.Post, error) {
	payload := model.Post{UserID: userID, Title: title, Body: body}

	resp, err := c.send(ctx, http.MethodPost, "posts/", payload)
	if err != nil {
		return nil, apperror.Transport("create post", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		drain(resp.Body)
		return nil, apperror.Rejected("create post", resp.StatusCode)
	}

	var created model.Post
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, apperror.Transport("create post", fmt.Errorf("decoding response: %w", err))
	}
	return &created, nil
}

// UpdatePost replaces the stored title/body of postID and returns the echoed
// record. The authoring userID travels with the payload because the upstream
// treats PUT as a full-record replace.
func (c *Client) UpdatePost(ctx context.Context, postID, userID int, title, body string) (*model.Post, error) {
	payload := model.Post{ID: postID, UserID: userID, Title: title, Body: body}

	resp, err := c.send(ctx, http.MethodPut, "posts/"+strconv.Itoa(postID), payload)
	if err != nil {
		return nil, apperror.Transport("update post", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		drain(resp.Body)
		return nil, apperror.Rejected("update post", resp.StatusCode)
	}

	var updated model.Post
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, apperror.Transport("update post", fmt.Errorf("decoding response: %w", err))
	}
	return &updated, nil
}

// DeletePost removes postID upstream. Only the status matters; any response
// body is discarded.
func (c *Client) DeletePost(ctx context.Context, postID int) error {
	resp, err := c.send(ctx, http.MethodDelete, "posts/"+strconv.Itoa(postID), nil)
	if err != nil {
		return apperror.Transport("delete post", err)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if !success(resp.StatusCode) {
		return apperror.Rejected("delete post", resp.StatusCode)
	}
	return nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		drain(resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// send builds and executes one request. A non-nil payload is serialized as
// JSON. The response body is the caller's to close.
func (c *Client) send(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("building url for %q: %w", path, err)
	}
	full := c.baseURL.ResolveReference(ref).String()

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, bodyReader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// drain consumes leftover body bytes so the underlying connection can be
// reused by the pool.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 1<<16))
}
