// Package execute wraps subprocess invocation for the external native
// toolchains (installer compilers, linkers, runtime tools). Calls are
// blocking and capture combined output; there is no retry or timeout
// policy here beyond what the provided context enforces.
package execute
