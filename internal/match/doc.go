// Package match holds the match row model.
//
// A Schema maps a normalized table header to match attributes and projects
// each record into a RawRow. A Validator applies the row validity predicate
// (two full player names, a known surface, a non-numeric umpire) and turns
// accepted rows into Match values; every other row comes back as a
// *Rejection so it can be reported.
//
// Dates are parsed leniently from several layouts. When a row has no date,
// the leading YYYYMMDD of its match id is used.
package match
