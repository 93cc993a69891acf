// Package api implements the client for the upstream market-data REST API.
//
// The reference ticker listing is cursor-paginated; GetAllTickers walks it
// sequentially to exhaustion (each page's cursor depends on the prior
// response, so pages cannot be fetched in parallel). Rate limits (429) and
// transient failures are retried with exponential backoff.
package api
