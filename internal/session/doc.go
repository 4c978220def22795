// Package session drives sequential, one-at-a-time installation of batches
// of mod archives. It is structured into small files by concern:
//
//   - manager.go: core Manager type, enqueue/drain loop, status reporting.
//   - modname.go: display-name derivation from archive file names.
//   - filter.go: the accepted archive extension filter.
//   - modlog.go: per-item log files and the engine diagnostic router.
//
// Ordering contract: items complete strictly in FIFO order, at most one
// install is ever in flight, and a drain is not re-entrant. An item failure
// stops the current batch but always returns the manager to idle so later
// batches drain normally.
package session
