// Package scraper fetches web pages and extracts HTML tables.
//
// A Scraper issues GET requests with a fixed User-Agent and timeout, then
// flattens one table of the page into header and row text cells with
// goquery. Tables nested inside the selected one are ignored.
package scraper
