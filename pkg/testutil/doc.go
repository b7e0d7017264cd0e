// Package testutil provides utilities for testing atfile components.
//
// Key components:
//   - NewTestFS: in-memory filesystem for fast, isolated tests
//   - FailingFS: filesystem wrapper with per-path error injection
//   - Outline: outline trees declared inline as YAML
//   - AssertText: text comparison that prints a unified diff
//
// All test data should be defined inline, not in external files.
package testutil
