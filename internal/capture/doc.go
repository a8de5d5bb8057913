// Package capture records JSON responses observed while browsing a site.
//
// Exchanges come either from a HAR export saved in the browser devtools or
// from live GET requests made by a Fetcher. A Recorder keeps the latest
// JSON payload per endpoint (scheme, host and path) together with its
// timing. The resulting Session is persisted by the storage package.
package capture
