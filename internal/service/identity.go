package service

import (
	"strings"

	"github.com/sakif/sustaineats/internal/apperror"
)

// requireSelf allows identity-scoped reads only for the caller's own email.
func requireSelf(actor, email string) error {
	if actor == "" {
		return apperror.Unauthorized("Unauthorized Access")
	}
	if email != actor {
		return apperror.Forbidden("Forbidden Access")
	}
	return nil
}

// ownerEmail resolves the owner field of a new record: blank means the
// caller, anything else has to be the caller.
func ownerEmail(actor, requested, field string) (string, error) {
	if actor == "" {
		return "", apperror.Unauthorized("Unauthorized Access")
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return actor, nil
	}
	if requested != actor {
		return "", apperror.Forbidden(field + " must match the signed-in user")
	}
	return requested, nil
}
