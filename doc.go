// Package vesi implements a Git-compatible local version-control
// engine: a loose-object store, a staging index, a reference
// namespace, tree construction from the index, three-way status
// computation, layered ignore-pattern evaluation, and name
// resolution, all operating purely against the local filesystem.
package vesi
