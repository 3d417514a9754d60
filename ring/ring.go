// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides a bounded lock-free MPMC queue of uint32 values.
//
// Ring is a Vyukov-style CAS queue: each slot carries a monotonic
// sequence number that encodes whether the slot is empty or full and
// which logical producer/consumer generation currently owns it. Both
// Enqueue and Dequeue return immediately — ErrWouldBlock on full/empty —
// and the ring is lock-free: a stalled producer or consumer never blocks
// another goroutine, but until it publishes the slot it holds, the other
// side reports ErrWouldBlock when it reaches that slot.
//
// Ring stores exactly one slot per logical position (n physical slots
// for capacity n), unlike FAA-based SCQ-style queues that require 2n
// slots; the trade-off is a CAS retry loop on the hot path instead of a
// blind fetch-and-add.
package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Ring is a bounded lock-free multi-producer multi-consumer queue of
// uint32 values.
//
// Capacity must be an exact power of two greater than 2; New panics
// otherwise. Ring never allocates after construction.
//
// Field naming follows the teacher package's convention (tail is the
// producer index, head the consumer index); the original C source this
// algorithm is ported from names them the other way around. The naming
// is arbitrary — what matters is that the two indices, and their cache
// lines, stay distinct.
type Ring struct {
	_        pad
	tail     atomix.Uint32 // next producer position
	_        pad
	head     atomix.Uint32 // next consumer position
	_        pad
	slots    []slot
	mask     uint32
	capacity uint32
}

type slot struct {
	seq  atomix.Uint32
	data uint32
	_    padShort
}

// New creates a Ring of the given capacity.
//
// Capacity must be a power of two strictly greater than 2. Unlike some
// bounded-queue constructors, New does not round capacity up — an
// invalid capacity is a construction failure, not a hint.
//
// Panics if capacity is not a power of two, or is <= 2.
func New(capacity uint32) *Ring {
	if capacity <= 2 || capacity&(capacity-1) != 0 {
		panic("ring: capacity must be a power of two greater than 2")
	}

	r := &Ring{
		slots:    make([]slot, capacity),
		mask:     capacity - 1,
		capacity: capacity,
	}
	for i := uint32(0); i < capacity; i++ {
		r.slots[i].seq.StoreRelaxed(i)
	}
	return r
}

// Enqueue inserts data into the ring.
// Returns ErrWouldBlock if the ring is full; never blocks.
func (r *Ring) Enqueue(data uint32) error {
	sw := spin.Wait{}
	pos := r.tail.LoadRelaxed()
	for {
		s := &r.slots[pos&r.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			if r.tail.CompareAndSwapRelaxed(pos, pos+1) {
				break
			}
			// CAS failure already refreshed pos's observed value below.
		} else if diff < 0 {
			return ErrWouldBlock
		} else {
			pos = r.tail.LoadRelaxed()
			continue
		}
		pos = r.tail.LoadRelaxed()
		sw.Once()
	}

	s := &r.slots[pos&r.mask]
	s.data = data
	s.seq.StoreRelease(pos + 1)
	return nil
}

// Dequeue removes and returns a value from the ring.
// Returns (0, ErrWouldBlock) if the ring is empty; never blocks.
func (r *Ring) Dequeue() (uint32, error) {
	sw := spin.Wait{}
	pos := r.head.LoadRelaxed()
	for {
		s := &r.slots[pos&r.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if r.head.CompareAndSwapRelaxed(pos, pos+1) {
				break
			}
		} else if diff < 0 {
			return 0, ErrWouldBlock
		} else {
			pos = r.head.LoadRelaxed()
			continue
		}
		pos = r.head.LoadRelaxed()
		sw.Once()
	}

	s := &r.slots[pos&r.mask]
	data := s.data
	s.seq.StoreRelease(pos + r.mask + 1)
	return data, nil
}

// Cap returns the ring's capacity.
func (r *Ring) Cap() uint32 {
	return r.capacity
}

// pad is cache-line padding to prevent false sharing between head and tail.
type pad [64]byte

// padShort pads a slot (4-byte seq + 4-byte data) out to a cache line.
type padShort [64 - 8]byte
