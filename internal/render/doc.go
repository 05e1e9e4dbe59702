// Package render drives a headless browser for sites that only reveal older
// articles through scrolling or a "Load More" control.
//
// A Launcher opens one Session per navigator invocation. The session is owned
// exclusively by that invocation and must be closed on every exit path;
// Close is idempotent so a deferred Close after an explicit one is harmless.
//
// The production Launcher is backed by go-rod, which starts a local Chromium
// through its launcher package.
package render
