package tracker

import "net/http"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBearerToken authenticates requests with a bearer token. Takes
// precedence over basic credentials when both are set.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.bearerToken = token
	}
}

// WithBasicAuth authenticates requests with basic credentials.
func WithBasicAuth(user, secret string) Option {
	return func(c *Client) {
		c.basicUser = user
		c.basicSecret = secret
	}
}

// WithPageSize caps the number of results requested per search. Result
// sets larger than the page truncate silently.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithPointsField sets the custom field key carrying sprint points.
func WithPointsField(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.pointsField = name
		}
	}
}
