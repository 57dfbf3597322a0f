// File: core/ksync/relax.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

// cpuRelax is a spin-wait hint. Go exposes no PAUSE/YIELD intrinsic, so the
// portable implementation is an empty call; the surrounding counted loop in
// Backoff.Wait still provides the graded delay.
//
//go:inline
func cpuRelax() {}
