// Package authz holds the ownership policy: a user may only touch their
// own tasks and their own profile. All checks are pure functions.
package authz

import (
	"github.com/google/uuid"

	"github.com/mpetrov/taskhub/internal/domain"
)

// CanAccessTask reports whether the user owns the task.
func CanAccessTask(user *domain.User, task *domain.Task) bool {
	return user != nil && task != nil && task.OwnerID == user.ID
}

// CanAccessProfile reports whether the profile belongs to the user.
func CanAccessProfile(user *domain.User, profileID uuid.UUID) bool {
	return user != nil && profileID == user.ID
}

// EnforceTask fails with ErrForbidden when the user does not own the task.
func EnforceTask(user *domain.User, task *domain.Task) error {
	if !CanAccessTask(user, task) {
		return domain.ErrForbidden
	}
	return nil
}

// EnforceProfile fails with ErrForbidden when the profile is not the user's.
func EnforceProfile(user *domain.User, profileID uuid.UUID) error {
	if !CanAccessProfile(user, profileID) {
		return domain.ErrForbidden
	}
	return nil
}
