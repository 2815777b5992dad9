// Package policy holds the authorization rules shared by the site and the API:
// reads are public, writes need an authenticated actor and edits/deletes need
// the actor to own the resource.
package policy

import (
	"errors"

	"github.com/d60-Lab/yatube/internal/model"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("only the author can modify this resource")
)

// Owned is implemented by resources that have a single owning author.
type Owned interface {
	OwnerID() string
}

// CanModify reports whether actor owns resource.
func CanModify(actor *model.User, resource Owned) bool {
	if actor == nil || resource == nil {
		return false
	}
	return actor.ID != "" && actor.ID == resource.OwnerID()
}

// RequireActor fails for anonymous callers.
func RequireActor(actor *model.User) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// RequireOwner combines RequireActor and CanModify.
func RequireOwner(actor *model.User, resource Owned) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !CanModify(actor, resource) {
		return ErrForbidden
	}
	return nil
}
