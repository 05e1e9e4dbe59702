// Package fetch issues the HTTP GET requests used by pagination navigation
// and article extraction.
//
// The Client sets a configurable User-Agent, limits response body size, and
// converts network failures and non-2xx responses into *TransportError so that
// callers can treat them as recoverable. Requests can optionally go through a
// SOCKS5 proxy and be paced per host with a token-bucket limiter.
//
// Usage:
//
//	client, err := fetch.NewClient(fetch.WithUserAgent(ua), fetch.WithTimeout(30*time.Second))
//	snap, err := client.Get(ctx, "https://news.example/world/page/1/")
package fetch
