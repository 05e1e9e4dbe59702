// Package navigator walks a site's listing pages until content from the
// target date is visible.
//
// Three strategies are supported, selected once per seed from its
// model.NavigationType:
//
//   - Pagination fetches {page}/page/{n}/ over HTTP, advancing while a
//     "next" affordance exists.
//   - InfiniteScroll drives a browser session, scrolling to the bottom until
//     the document height stops growing.
//   - LoadMore drives a browser session, clicking a "Load More" control until
//     it disappears.
//
// Every strategy stops with one of three outcomes: found (a date element equal
// to the target was seen), exhausted (no further navigation was possible), or
// failed (no snapshot could be produced). Exhausted is a normal stop. All
// strategies honour a step limit, and browser sessions are released exactly
// once on every exit path.
package navigator
