// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"reflect"
	"testing"

	"code.hybscloud.com/seqpool/ring"
)

// cacheLineSize matches the padding declared in ring.go.
const cacheLineSize = 64

// TestHeadTailDistinctCacheLines verifies head and tail never share a
// cache line, so a producer and consumer spinning on each never cause
// false sharing.
func TestHeadTailDistinctCacheLines(t *testing.T) {
	typ := reflect.TypeOf(ring.Ring{})

	head, ok := typ.FieldByName("head")
	if !ok {
		t.Fatal("Ring has no field named head")
	}
	tail, ok := typ.FieldByName("tail")
	if !ok {
		t.Fatal("Ring has no field named tail")
	}

	if head.Offset/cacheLineSize == tail.Offset/cacheLineSize {
		t.Fatalf("head (offset %d) and tail (offset %d) share cache line %d",
			head.Offset, tail.Offset, head.Offset/cacheLineSize)
	}
}

// TestSlotSizeIsCacheLine verifies each slot occupies exactly one cache
// line, preventing false sharing between adjacent slots under
// concurrent producer/consumer access.
func TestSlotSizeIsCacheLine(t *testing.T) {
	// slot is unexported; recovering its size from Ring's own field
	// layout avoids needing package-internal access. slots is a
	// []slot, and reflect exposes the slice element's size directly.
	typ := reflect.TypeOf(ring.Ring{})

	slots, ok := typ.FieldByName("slots")
	if !ok {
		t.Fatal("Ring has no field named slots")
	}
	if slots.Type.Kind() != reflect.Slice {
		t.Fatalf("slots field is %v, want a slice", slots.Type.Kind())
	}

	if got := slots.Type.Elem().Size(); got != cacheLineSize {
		t.Fatalf("slot size = %d, want %d", got, cacheLineSize)
	}
}
