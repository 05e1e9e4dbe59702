// Package article turns candidate links into article records.
//
// An Extractor fetches one link and pulls out its title, body text and
// publish date. A Filter runs the extractor over every collected link and
// keeps the articles whose publish date is the run's target date. A link that
// cannot be fetched, has no content, or carries no readable date is logged and
// skipped; it never stops the rest of the batch.
package article
