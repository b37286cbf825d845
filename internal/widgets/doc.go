// Package widgets contains the dashboard controllers.
//
// Each controller loads one resource through its remote client into the
// shared store. A load is skipped without a credential, raises the
// resource's loading flag and always lowers it again. Dashboard.Mount runs
// all loads concurrently; each writes only its own slice of the store, so
// the result is the same whatever order they finish in.
//
// The Tasks controller also owns the write paths: toggling a task is an
// optimistic update that is reverted when the remote call fails, and adding a
// task appends the created task to its list.
package widgets
