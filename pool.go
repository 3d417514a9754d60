// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqpool

import (
	"math"
	"sync"

	"code.hybscloud.com/seqpool/ring"
)

// cacheCapacity is the capacity of each per-user cache ring, sized so a
// full refill or flush moves a worthwhile batch of IDs without holding
// the shared mutex for long.
const cacheCapacity = 32

// Pool is a sharded allocator for unique IDs in [base, base+nIDs).
//
// A Pool must be created with Create; the zero value is not usable.
type Pool struct {
	base   uint32
	nIDs   uint32
	nbUser uint32

	caches []*ring.Ring // one lock-free cache per user, capacity cacheCapacity

	mu      sync.Mutex // guards nextID and freeIDs
	nextID  uint32
	freeIDs []uint32
}

// Create allocates a Pool handing out IDs in the half-open range
// [base, base+nIDs).
//
// nbUser must be at least 1, and base+nIDs must not overflow uint32.
// Panics otherwise — both are caller bugs, not runtime conditions.
func Create(nbUser int, base, nIDs uint32) *Pool {
	if nbUser < 1 {
		panic("seqpool: nbUser must be >= 1")
	}
	if uint64(base)+uint64(nIDs) > math.MaxUint32 {
		panic("seqpool: base+nIDs overflows uint32")
	}

	caches := make([]*ring.Ring, nbUser)
	for i := range caches {
		caches[i] = ring.New(cacheCapacity)
	}

	return &Pool{
		base:   base,
		nIDs:   nIDs,
		nbUser: uint32(nbUser),
		caches: caches,
		nextID: base,
	}
}

// Destroy releases the pool's resources. Destroy is idempotent and
// safe to call on a nil Pool.
//
// The caller must ensure no concurrent NewID/FreeID call is in flight —
// Destroy does not synchronize with them.
func (p *Pool) Destroy() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.freeIDs = nil
	p.mu.Unlock()
	p.caches = nil
}

// NewID returns an unused ID, or ErrExhausted if none is available.
//
// uid selects a per-user cache via uid % nbUser; any uid may be passed
// from any goroutine.
func (p *Pool) NewID(uid uint32) (uint32, error) {
	idx := uid % p.nbUser
	cache := p.caches[idx]

	if id, err := cache.Dequeue(); err == nil {
		return id, nil
	}

	p.refill(cache)

	if id, err := cache.Dequeue(); err == nil {
		return id, nil
	}

	// Steal path: one non-blocking dequeue per peer, first hit wins.
	// Deliberately single-step per peer — draining a peer's cache would
	// make latency depend on how full peers happen to be.
	for i := uint32(0); i < p.nbUser; i++ {
		if i == idx {
			continue
		}
		if id, err := p.caches[i].Dequeue(); err == nil {
			return id, nil
		}
	}

	return 0, ErrExhausted
}

// refill tops up cache from the shared free list, then from the
// monotonic cursor, stopping as soon as either source is exhausted or
// the cache reports full. Free list first, so recently-freed IDs are
// preferred over IDs never issued before.
func (p *Pool) refill(cache *ring.Ring) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.freeIDs) > 0 {
		id := p.freeIDs[len(p.freeIDs)-1]
		if cache.Enqueue(id) != nil {
			break
		}
		p.freeIDs = p.freeIDs[:len(p.freeIDs)-1]
	}

	for p.nextID < p.base+p.nIDs {
		if cache.Enqueue(p.nextID) != nil {
			break
		}
		p.nextID++
	}
}

// FreeID returns id to the pool. An id outside [base, base+nIDs) is a
// silent no-op.
//
// Concurrently freeing the same id from two goroutines is a caller bug
// and breaks the uniqueness invariant; FreeID does not detect it.
func (p *Pool) FreeID(uid uint32, id uint32) {
	if id < p.base || id >= p.base+p.nIDs {
		return
	}

	idx := uid % p.nbUser
	cache := p.caches[idx]

	if cache.Enqueue(id) == nil {
		return
	}

	// Flush path: drain the local cache and append the newly-freed id
	// to the shared free list in one critical section.
	drained := make([]uint32, 0, cacheCapacity+1)
	for {
		v, err := cache.Dequeue()
		if err != nil {
			break
		}
		drained = append(drained, v)
	}
	drained = append(drained, id)

	p.mu.Lock()
	p.freeIDs = append(p.freeIDs, drained...)
	p.mu.Unlock()
}
