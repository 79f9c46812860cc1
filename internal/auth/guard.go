package auth

import (
	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/models"
)

// CanActOn reports whether current may modify the account requestedID.
// Only the account itself may; there is no administrative override.
func CanActOn(requestedID string, current models.Account) bool {
	return current.ID != "" && current.ID == requestedID
}

// Authorize fails with apperr.ErrForbidden unless current is requestedID.
//
// Tasks are not guarded here: their queries are scoped to the owner, and a
// foreign task surfaces as apperr.ErrTaskNotFound instead.
func Authorize(requestedID string, current models.Account) error {
	if !CanActOn(requestedID, current) {
		return apperr.ErrForbidden
	}
	return nil
}
