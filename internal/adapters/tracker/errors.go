package tracker

import "errors"

// Sentinel kinds for ticket source errors. These allow errors.Is/As from
// callers; any failure of the search call, including a non-success status
// or an undecodable body, wraps ErrTransport.
var ErrTransport = errors.New("ticket source request failed")
