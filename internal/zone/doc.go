// Package zone defines the data model produced by the importer: zone descriptors for master and
// include files, the include edges between them and the resource records they own.
//
// Descriptors and records are immutable once handed to a sink. Record owners and targets keep the
// notation found in the source text: a relative label, the "@" marker or a fully-qualified name
// with a trailing dot. A nil Record.TTL means the owning zone's default TTL applies.
package zone
