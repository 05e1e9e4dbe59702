// Package seed reads the list of sites to crawl.
//
// The seed file is a CSV with a header row naming at least the page_url and
// navigation_type columns. Other columns are ignored. Rows that cannot be
// turned into a seed are reported back instead of aborting the whole file.
package seed
