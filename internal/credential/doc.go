// Package credential holds the delegated Google access grant for the current user.
//
// A Store keeps exactly one Credential: the access token, the optional refresh
// token, the absolute expiry and the Identity the token was granted for. The
// store performs no network calls. It persists its state through a Persister
// under a fixed key and restores it when constructed.
//
// Persister implementations:
//   - MemoryPersister: process lifetime only, used in tests
//   - FilePersister: one file per key under a directory (0600)
//   - EncryptedPersister: AES-256-GCM wrapper around any other Persister
//   - SQLitePersister: key-value table in a local SQLite database
//   - RedisPersister: keys in a Redis database
//
// Store implements oauth2.TokenSource, so HTTP clients built on it always send
// the token that is current at request time.
package credential
