// Package blockade exposes the operations callers use to drive a remote
// blockade service.
//
// Ownership boundary:
// - create-with-recreate-on-conflict policy
//
// - random target selection from the cached container set
//
// - bulk network shaping and partition management
//
// Every mutating operation follows the same pattern: mutate remote, refresh
// the shadow entry, return. The only automatic retry anywhere is the single
// conflict-driven recreate in StartBlockade; every other error propagates to
// the caller untouched.
//
// A Handler is not safe for concurrent use. The design assumes one logical
// owner issuing calls sequentially; sharing a handler across goroutines
// requires external synchronization.
package blockade
