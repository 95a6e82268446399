// Package httputil provides the HTTP plumbing behind the URL shortener
// client.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff while it keeps
// failing with an error wrapped by [Retryable]:
//
//   - Transport failures (connection refused, timeouts)
//   - 5xx server errors
//   - 429 rate limit responses
//
// Every other error is returned immediately. [CheckStatus] classifies an
// HTTP status code accordingly.
//
// # Client
//
// [NewClient] returns an *http.Client with a bounded timeout, and
// [NewRequest] stamps the bouqlink User-Agent on outbound requests.
package httputil
