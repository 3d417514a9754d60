// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package seqpool provides a sharded allocator for unique 32-bit
// identifiers drawn from a half-open range [base, base+nIDs).
//
// The pool hands out and reclaims IDs from many concurrent user
// threads without a global lock on the hot path. Each user has a small
// lock-free cache (a [code.hybscloud.com/seqpool/ring].Ring); allocation
// falls through a fast local dequeue, a mutex-guarded shared refill from
// a free list and a monotonic cursor, and finally a single-step steal
// from a peer's cache.
//
// # Basic usage
//
//	p := seqpool.Create(4, 100, 1000) // 4 users, ids [100, 1100)
//	defer p.Destroy()
//
//	id, err := p.NewID(0)
//	if err != nil {
//	    // pool exhausted (or transiently unreachable — see Errors below)
//	}
//	p.FreeID(0, id)
//
// # Sharding
//
// uid is any uint32; it is reduced by uid % nbUser internally. Any
// thread may legally call NewID/FreeID with any uid — caches are not
// owned by the calling goroutine, they are simply where its IDs are
// most likely to be found without contention.
//
// # Errors
//
// NewID returns [ErrExhausted] when no ID is available in any of the
// four allocation tiers. This is a control-flow signal, not a failure:
// the pool may truly be exhausted, or a peer's cache may hold an ID
// that this call's single-step-per-peer steal pass did not happen to
// land on — the caller may simply retry.
//
// FreeID never fails: an out-of-range id is a silent no-op.
package seqpool
