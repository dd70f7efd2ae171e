// Package httpserver exposes the exam registry operations over HTTP.
//
// The server authenticates callers externally: the X-Zkpvault-Caller header
// carries the hex account address an upstream gateway has already verified.
// The server supplies the current time for every invocation; the registry
// itself never reads the clock.
//
// Besides the API routes the server provides the usual liveness, readiness
// and drain endpoints, and serves Prometheus metrics on a separate listener.
package httpserver
