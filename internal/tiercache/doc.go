// Package tiercache implements the two-tier lookup cache that sits in front
// of the card oracle.
//
// The first tier is an in-process LRU map with TTL expiry. The second is a
// SQLite database shared between runs and between processes, so oracle
// confirmations survive restarts. Keys are derived from a namespace plus the
// JSON encoding of the lookup parameters, hashed so arbitrary queries make
// stable keys. Reads fall through memory to the shared tier and promote on
// hit; writes go to both.
package tiercache
