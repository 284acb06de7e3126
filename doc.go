// Package main provides the zone-importer command. It reads BIND zone files from a directory,
// follows their $INCLUDE directives inside a sandboxed root and writes every master zone, include
// file, record and include relation to the zone management API, its database or a PowerDNS
// server. The example command imports a built-in sample zone into memory.
package main
