// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func requireUser(userID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Unauthorized")
	}
	return nil
}

// storeError passes AppErrors through unchanged and hides any other failure behind
// message, logging the underlying cause.
func storeError(ctx context.Context, message string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	middleware.Logger.ErrorContext(ctx, message, slog.String("error", err.Error()))
	return models.NewInternalError(message, err)
}

// cleanList trims entries, drops blanks and repeats, and keeps first-seen order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
