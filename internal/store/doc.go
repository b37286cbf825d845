// Package store holds the data the dashboard has fetched: task lists, the
// tasks of each list, upcoming events and starred files, plus one loading
// flag per resource.
//
// Collections are replaced wholesale on every successful fetch. All
// mutations take the store lock and readers receive copies, so a partially
// applied write is never visible. Optimistic wraps a local mutation around a
// remote call and reverts it when the call fails.
package store
