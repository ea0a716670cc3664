// Package tracker implements the HTTP client for the external ticket
// source. It issues a single search call per sync with a query expression
// and a field projection list, and decodes the first page of results into
// raw ticket records.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/bugathon/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultPageSize    = 500
	defaultPointsField = "customfield_10016"
	defaultTimeout     = 30 * time.Second
	searchPath         = "/rest/api/2/search"
)

// timeLayout matches the ticket source's timestamp encoding.
const timeLayout = "2006-01-02T15:04:05.000-0700"

// Client queries the ticket source. Construct with NewClient.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	bearerToken string
	basicUser   string
	basicSecret string
	pageSize    int
	pointsField string
}

// NewClient creates a ticket source client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		pageSize:    defaultPageSize,
		pointsField: defaultPointsField,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs the query expression with the given field projection and
// returns up to one page of raw tickets. Larger result sets truncate
// silently; pagination is deliberately not implemented.
func (c *Client) Search(ctx context.Context, query string, fields []string) ([]model.RawTicket, error) {
	u, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", ErrTransport, err)
	}
	q := u.Query()
	q.Set("jql", query)
	q.Set("maxResults", strconv.Itoa(c.pageSize))
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	switch {
	case c.bearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	case c.basicUser != "":
		req.SetBasicAuth(c.basicUser, c.basicSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: search returned status %d", ErrTransport, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}

	out := make([]model.RawTicket, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		out = append(out, c.decodeIssue(issue))
	}
	return out, nil
}

// Wire shapes for the search response.
type searchResponse struct {
	Issues []issue `json:"issues"`
}

type issue struct {
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type statusField struct {
	Name     string `json:"name"`
	Category struct {
		Key string `json:"key"`
	} `json:"statusCategory"`
}

type userField struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

type namedField struct {
	Name string `json:"name"`
}

// decodeIssue maps one wire issue onto a RawTicket. Missing or malformed
// optional fields fall back to zero values rather than failing the batch.
func (c *Client) decodeIssue(in issue) model.RawTicket {
	raw := model.RawTicket{Key: in.Key}

	field := func(name string, v any) bool {
		data, ok := in.Fields[name]
		if !ok || string(data) == "null" {
			return false
		}
		return json.Unmarshal(data, v) == nil
	}

	_ = field("summary", &raw.Summary)

	var status statusField
	if field("status", &status) {
		raw.Status = status.Name
		raw.StatusCategory = status.Category.Key
	}

	var reporter userField
	if field("reporter", &reporter) {
		raw.Reporter = model.User{ID: reporter.AccountID, Name: reporter.DisplayName}
	}
	var assignee userField
	if field("assignee", &assignee) {
		raw.Assignee = model.User{ID: assignee.AccountID, Name: assignee.DisplayName}
	}

	_ = field(c.pointsField, &raw.SprintPoints)

	var created string
	if field("created", &created) {
		if t, err := time.Parse(timeLayout, created); err == nil {
			raw.Created = t.UTC()
		}
	}
	var resolved string
	if field("resolutiondate", &resolved) {
		if t, err := time.Parse(timeLayout, resolved); err == nil {
			utc := t.UTC()
			raw.Resolved = &utc
		}
	}

	var priority namedField
	if field("priority", &priority) {
		raw.Priority = priority.Name
	}
	var issueType namedField
	if field("issuetype", &issueType) {
		raw.IssueType = issueType.Name
	}

	return raw
}
