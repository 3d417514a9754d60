// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqpool

import "code.hybscloud.com/iox"

// ErrExhausted indicates NewID could not find an unused ID in any of the
// pool's four allocation tiers.
//
// ErrExhausted is a control flow signal, not a failure — it is an alias
// for [iox.ErrWouldBlock] for ecosystem consistency, matching how
// [code.hybscloud.com/seqpool/ring] classifies a full/empty ring.
var ErrExhausted = iox.ErrWouldBlock

// IsExhausted reports whether err indicates pool exhaustion.
func IsExhausted(err error) bool {
	return iox.IsWouldBlock(err)
}
