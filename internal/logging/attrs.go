package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Attribute keys shared by every glance component.
const (
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyUserHash  = "user_hash"
	KeyError     = "error"
	KeyListID    = "list_id"
	KeyTaskID    = "task_id"
)

// WithComponent scopes logger to a component such as "auth" or "widgets".
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(KeyComponent, component))
}

// WithOperation scopes logger to a single operation, e.g. "login".
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

func ListID(id string) slog.Attr { return slog.String(KeyListID, id) }

func TaskID(id string) slog.Attr { return slog.String(KeyTaskID, id) }

// Err returns an error attribute. A nil err yields an empty group, which
// slog drops, so Err(maybeNil) is always safe.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail hashes an address so log lines for the same account can be
// correlated without printing it.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(sum[:8])
}

// UserHash returns the anonymized user attribute.
//
//	logger.Info("signed in", logging.UserHash(identity.Email))
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}
