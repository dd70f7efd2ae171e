// Package storage provides KeyedRecordStore implementations over several
// substrates (in-memory, filesystem, PostgreSQL, S3, Vault, IPFS), a URI
// driven factory for selecting one, and the Transactor that gives registry
// invocations their all-or-nothing write semantics.
//
// Keys are opaque byte strings; every backend addresses records by the hex
// encoding of the key. Values are opaque blobs whose structure is the
// caller's concern.
package storage
