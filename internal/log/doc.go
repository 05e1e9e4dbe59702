// Package log provides slog loggers that redact sensitive values.
//
// Site profiles may carry cookies and auth headers, and article links
// sometimes include access tokens in their query strings. The SecureHandler
// masks all of these before a record reaches the output:
//   - attributes whose key names a credential (cookie, authorization, token)
//   - header maps, entry by entry
//   - values that look like bearer tokens, JWTs or long API keys
//   - sensitive query parameters inside URL values
//
// Even in verbose mode, sensitive values are masked so that crawl logs can be
// shared safely.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("fetching page",
//	    "url", "https://news.example.com/?token=abc", // query value masked
//	    "cookie", "consent=yes",                      // masked
//	)
//	slog.SetDefault(logger)
package log
