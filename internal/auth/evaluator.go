package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/cxm/pkg/logger"
)

// PermissionEvaluator is what resource services depend on for authorization decisions.
type PermissionEvaluator interface {
	HasPermission(role string, allowedRoles []string) bool
	HasModulePermission(ctx context.Context, userID, role, module string) bool
}

// GrantStore answers whether a user holds a granted row for a module.
type GrantStore interface {
	HasGrant(ctx context.Context, userID, module string) (bool, error)
}

type Evaluator struct {
	grants GrantStore
	logger *slog.Logger
}

func NewEvaluator(grants GrantStore, lg *slog.Logger) *Evaluator {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Evaluator{grants: grants, logger: lg}
}

// HasPermission is a literal, case-sensitive membership test.
func HasPermission(role string, allowedRoles []string) bool {
	return contains(allowedRoles, role)
}

func IsChief(role string) bool {
	return contains(Chiefs, role)
}

func IsManager(role string) bool {
	return contains(Managers, role)
}

func (e *Evaluator) HasPermission(role string, allowedRoles []string) bool {
	return HasPermission(role, allowedRoles)
}

// HasModulePermission short-circuits chief roles, otherwise consults stored grants on every call.
// Lookup failures are logged and read as a denial.
func (e *Evaluator) HasModulePermission(ctx context.Context, userID, role, module string) bool {
	if IsChief(role) {
		return true
	}
	if userID == "" || module == "" || e.grants == nil {
		return false
	}

	ok, err := e.grants.HasGrant(ctx, userID, module)
	if err != nil {
		e.logger.ErrorContext(ctx, "Evaluator: grant lookup failed",
			"user_id", userID,
			"module", module,
			"error", err)
		return false
	}
	return ok
}
