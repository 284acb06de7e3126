// Package zonetext reads raw zone text without the canonical parser.
//
// It recovers the lexical facts a canonicalizing parser throws away: which record lines carried
// an explicit TTL, how each owner was written ("@", relative or fully qualified) and the verbatim
// record data. It also extracts the $ORIGIN, $TTL and $INCLUDE directives.
//
// All raw-text consumers share one classifier, Shape, which splits a record line into
// owner [ttl] [class] type rdata.
package zonetext
