package prng

import "time"

// NewFromHardwareClock seeds a Prng from the host's wall-clock time in
// nanoseconds (time.Now().UnixNano()), the Go stand-in for the original's RDTSC/CNTVCT_EL0 hardware-timestamp seed.
// Same threat model as the rest of this package: good enough for nonce
// uniqueness and fingerprint-resistant jitter, not for secrets that must
// resist a targeted adversary.
func NewFromHardwareClock() *Prng {
	return New(uint64(time.Now().UnixNano()))
}
