// Package sqlbuild assembles the statements issued by the transfer engine
// from ordered clause lists.
//
// Security: projections, table names and join predicates are inserted into
// the statement verbatim. Callers are trusted; nothing here validates,
// escapes or parameterises them, so untrusted input passed to Select, Join
// or the table arguments is a SQL injection vector. Only column names in
// CREATE TABLE and INSERT are quoted, and row values are always bound as
// parameters.
package sqlbuild
