package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type contextKey string

const companyIDKey contextKey = "companyID"

// ContextWithCompanyID returns a new context carrying the authenticated company scope.
func ContextWithCompanyID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, companyIDKey, id)
}

// CompanyIDFromContext retrieves the authenticated company scope, if any.
func CompanyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(companyIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// EnforceCompanyScope ensures the requested company matches the
// authenticated scope when one is present on the context.
func EnforceCompanyScope(ctx context.Context, companyID uuid.UUID) error {
	if companyID == uuid.Nil {
		return fmt.Errorf("companyId is required")
	}
	scopedID, ok := CompanyIDFromContext(ctx)
	if !ok {
		return nil
	}
	if scopedID != companyID {
		return fmt.Errorf("companyId %s does not match authenticated scope", companyID)
	}
	return nil
}
