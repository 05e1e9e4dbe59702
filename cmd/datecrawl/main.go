// Package main provides the entry point for the datecrawl CLI.
//
// datecrawl visits a list of news sites, walks each one back to the articles
// published on a target date, and writes those articles to a CSV file.
//
// Usage:
//
//	datecrawl crawl
//	datecrawl crawl --date 2024-05-01 --seeds sites.csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
