// Package pipeline runs every seed of a crawl through a fixed sequence of
// steps and merges the results.
//
// Each seed gets its own model.SeedRun, which flows through a Pipeline of
// Steps: NavigateStep walks the site's listing until the target date is
// visible, then CollectLinksStep extracts candidate article links from the
// page navigation stopped on. A failing step stops that seed's pipeline and
// is recorded on its SeedRun.
//
// The Orchestrator runs seed pipelines concurrently on an errgroup with a
// fixed worker limit, pauses each worker between seeds, and unions the
// collected links into one model.LinkSet. A failed or panicking seed
// contributes no links and never affects the others.
package pipeline
