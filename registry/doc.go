// Package registry implements the exam attestation registry: exam
// registration with a validity window and acceptance threshold, write-once
// attestation submission, and authority-gated lifecycle transitions.
//
// Every operation runs as one synchronous transaction against a
// KeyedRecordStore: all preconditions are validated against a buffered view
// of the store, and only a fully validated invocation commits its single
// write. A failed precondition surfaces its specific error kind from the
// interfaces package and leaves storage untouched.
package registry
