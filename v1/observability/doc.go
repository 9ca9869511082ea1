// Package observability defines a minimal operation observer contract shared
// by the document store adapters, plus a Prometheus-backed implementation.
//
// Adapters notify the observer after every public operation with component,
// operation name, duration and outcome. A nil observer is a no-op, so
// instrumentation is strictly opt-in and configured per store instance.
package observability
