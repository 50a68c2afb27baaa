// Package app provides the application service layer.
//
// Orchestrates use cases: classification with history recording, history paging,
// clearing and per-label statistics. Sits between the HTTP and CLI entrypoints and the
// domain contracts; it depends on domain interfaces, not concrete implementations.
package app
