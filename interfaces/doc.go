// Package interfaces defines the core interfaces and types for the exam
// attestation registry. It provides the contract between components without
// implementation details: record store access, registry operations, the
// stored record structures, and the sentinel errors every layer shares.
package interfaces
