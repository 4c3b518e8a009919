// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - Atomic file replacement
//   - Directory creation
//
// # Atomic Writes
//
// Cache checkpoints and the chart image are written with WriteAtomic, so a
// crash mid-write never leaves a truncated file behind:
//
//	err := ioutils.WriteAtomic("universally_acclaimed_2025.png", func(w io.Writer) error {
//	    return png.Encode(w, img)
//	})
package ioutils
