//go:build !seodebug

package suggestions

// Strict makes unknown suggestion codes fail fast.
const Strict = false
