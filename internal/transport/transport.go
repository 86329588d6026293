// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package transport dispatches REST calls described by a method schema:
// path template substitution, query parameters for GET and DELETE, a JSON
// body otherwise, bearer authentication, and bounded retries on throttling
// and server errors. Non-2xx responses become *Error values carrying the
// remote google.rpc.Status detail and a remediation hint.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/googleapis/cloudctl/internal/schema"
	"github.com/googleapis/gax-go/v2"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Error is a non-2xx API response. Status carries the remote detail when
// the server returned a structured error body.
type Error struct {
	// HTTPCode is the response status code.
	HTTPCode int

	// Status is the decoded google.rpc.Status, nil when the body was not
	// a structured error.
	Status *statuspb.Status

	// Body is the raw response body, kept for unstructured errors.
	Body string
}

func (e *Error) Error() string {
	msg := e.Body
	if e.Status != nil && e.Status.GetMessage() != "" {
		msg = e.Status.GetMessage()
	}
	out := fmt.Sprintf("HTTP %d: %s", e.HTTPCode, strings.TrimSpace(msg))
	if hint := remediation(e.HTTPCode); hint != "" {
		out += "\n" + hint
	}
	return out
}

// remediation maps common failure codes to a next step the user can take.
func remediation(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "Reauthenticate with: cloudctl auth login"
	case http.StatusForbidden:
		return "Check that the active account has permission on the target project, or switch accounts with: cloudctl config set account ACCOUNT"
	case http.StatusNotFound:
		return "Check the resource name and its scope flags (for example --zone) for typos"
	case http.StatusTooManyRequests:
		return "The request was throttled after retries; wait and try again"
	default:
		return ""
	}
}

// retryable reports whether a response code is worth retrying.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Options tune a client.
type Options struct {
	// UserAgent overrides the default user agent.
	UserAgent string

	// Retry controls the retry schedule. The zero value retries with a
	// short exponential backoff.
	Retry gax.Backoff

	// MaxAttempts bounds the attempts per call, including the first.
	// Zero means 4.
	MaxAttempts int
}

// Client dispatches schema-described calls against one service endpoint.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	tokens      TokenSource
	userAgent   string
	retry       gax.Backoff
	maxAttempts int
}

// NewClient returns a client for one service. tokens may be nil for
// unauthenticated endpoints.
func NewClient(svc *schema.Service, tokens TokenSource, opts *Options) *Client {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.UserAgent == "" {
		o.UserAgent = "cloudctl"
	}
	if o.Retry.Initial == 0 {
		o.Retry = gax.Backoff{Initial: 200 * time.Millisecond, Max: 5 * time.Second, Multiplier: 2}
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 4
	}
	return &Client{
		endpoint:    strings.TrimSuffix(svc.Endpoint, "/"),
		httpClient:  &http.Client{Timeout: time.Minute},
		tokens:      tokens,
		userAgent:   o.UserAgent,
		retry:       o.Retry,
		maxAttempts: o.MaxAttempts,
	}
}

// SetHTTPClient replaces the underlying HTTP client, for tests.
func (c *Client) SetHTTPClient(hc *http.Client) { c.httpClient = hc }

// Call dispatches one method. params fill the path template; msg is the
// request message keyed by JSON field name. For GET and DELETE the message
// fields become query parameters; otherwise the message is the JSON body.
// The decoded JSON response is returned as a generic map, empty responses
// as an empty map.
func (c *Client) Call(ctx context.Context, m *schema.Method, params map[string]string, msg map[string]any) (map[string]any, error) {
	path, err := schema.ExpandPath(m.Path, params)
	if err != nil {
		return nil, err
	}
	u := c.endpoint + "/" + path

	var body []byte
	query := url.Values{}
	switch m.Verb {
	case http.MethodGet, http.MethodDelete:
		if err := flattenQuery(query, "", msg); err != nil {
			return nil, err
		}
	default:
		if body, err = json.Marshal(msg); err != nil {
			return nil, err
		}
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return c.dispatch(ctx, m.Verb, u, body)
}

// CallPath dispatches verb against a literal path below the endpoint, for
// custom methods such as "v1/{resource}:getIamPolicy" after expansion. msg
// is the JSON body, nil for bodiless verbs. Retries follow Call's rules.
func (c *Client) CallPath(ctx context.Context, verb, path string, msg map[string]any) (map[string]any, error) {
	u := c.endpoint + "/" + strings.TrimPrefix(path, "/")
	var body []byte
	if msg != nil {
		var err error
		if body, err = json.Marshal(msg); err != nil {
			return nil, err
		}
	}
	return c.dispatch(ctx, verb, u, body)
}

// dispatch sends one request with bounded retries on throttling and server
// errors.
func (c *Client) dispatch(ctx context.Context, verb, u string, body []byte) (map[string]any, error) {
	backoff := c.retry
	for attempt := 1; ; attempt++ {
		out, err := c.once(ctx, verb, u, body)
		if err == nil {
			return out, nil
		}
		apiErr, ok := err.(*Error)
		if !ok || !retryable(apiErr.HTTPCode) || attempt >= c.maxAttempts {
			return nil, err
		}
		if err := gax.Sleep(ctx, backoff.Pause()); err != nil {
			return nil, err
		}
	}
}

func (c *Client) once(ctx context.Context, verb, u string, body []byte) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, verb, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", verb, u, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, data)
	}
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}
	return out, nil
}

// decodeError extracts the {"error": {...google.rpc.Status...}} envelope
// standard REST errors use. Anything else is kept as raw body text.
func decodeError(httpCode int, body []byte) *Error {
	apiErr := &Error{HTTPCode: httpCode, Body: string(body)}
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return apiErr
	}
	st := &statuspb.Status{}
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(envelope.Error, st); err != nil {
		return apiErr
	}
	apiErr.Status = st
	return apiErr
}

// flattenQuery turns a message into query parameters, dotting nested field
// names. Keys are added in sorted order per level for stable URLs.
func flattenQuery(query url.Values, prefix string, msg map[string]any) error {
	keys := make([]string, 0, len(msg))
	for k := range msg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch v := msg[k].(type) {
		case map[string]any:
			if err := flattenQuery(query, name, v); err != nil {
				return err
			}
		case []any:
			for _, item := range v {
				query.Add(name, fmt.Sprint(item))
			}
		case nil:
			// skip
		default:
			query.Add(name, fmt.Sprint(v))
		}
	}
	return nil
}
