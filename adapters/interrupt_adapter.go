// File: adapters/interrupt_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"sync/atomic"

	"github.com/momentics/ksync/api"
)

// Compile-time interface compliance.
var (
	_ api.InterruptController = NopInterruptController{}
	_ api.InterruptController = (*MaskingInterruptController)(nil)
)

// NopInterruptController is the userspace interrupt hook: a process cannot
// mask interrupts, so Disable only reports the conceptual "enabled" state
// and Restore does nothing.
type NopInterruptController struct{}

// Disable implements api.InterruptController.
func (NopInterruptController) Disable() bool { return true }

// Restore implements api.InterruptController.
func (NopInterruptController) Restore(bool) {}

// MaskingInterruptController models a real flags register: Disable masks,
// Restore unmasks only when the interrupts were enabled at Disable time.
// Used by embedders that bring their own interrupt plumbing and by tests
// that verify guard pairing.
type MaskingInterruptController struct {
	masked atomic.Bool
}

// Disable implements api.InterruptController.
func (c *MaskingInterruptController) Disable() bool {
	return !c.masked.Swap(true)
}

// Restore implements api.InterruptController.
func (c *MaskingInterruptController) Restore(wasEnabled bool) {
	if wasEnabled {
		c.masked.Store(false)
	}
}

// Enabled reports whether interrupts are currently unmasked.
func (c *MaskingInterruptController) Enabled() bool {
	return !c.masked.Load()
}
