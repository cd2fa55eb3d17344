// Package states provides the US state codes offered by address forms,
// search helpers, and a small net/http handler that returns JSON options.
//
// The handler responds to GET and HEAD requests and supports query and limit
// parameters. An empty query returns the first states alphabetically by code,
// so a select can be filled in one request. The backing data is embedded
// under data/us_states.txt.
package states
