// Package globalopts owns the process-wide numerical configuration.
//
// These options affect op-level numerical behavior everywhere in the
// process: the default dtype for tensors created outside the explicit
// precision pipeline, the deterministic-algorithms flag, the equivariant
// tensor-op backend, and the RNG seed. Because the state is genuinely
// process-wide, all mutation is confined to the Manager, which reports
// conflicts instead of silently overriding a host's configuration.
//
// Scope rule: only options ferrite itself is responsible for are snapshot
// candidates. Host-owned state (environment, other libraries' settings) is
// never captured, so applying a snapshot cannot drag unrelated host state
// across processes.
//
// Lifecycle: a snapshot is captured once, at artifact-export time; applied
// at every artifact load, before the first forward pass that depends on the
// options; never mutated mid-training; and never implicitly reset. Teardown
// belongs to process exit, not to this package.
package globalopts
