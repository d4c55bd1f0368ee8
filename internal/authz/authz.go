// Package authz is the authorization guard: the single place where "may this
// identity do that?" is decided.
//
// Every sensitive operation in the service layer consults one of these
// predicates before touching the store. The rules are deliberately tiny —
// there are no roles, only "owner vs. non-owner":
//
//	view account detail   → any authenticated identity
//	delete account        → identity == target username (self-delete only)
//	create feedback for U → identity == U
//	edit feedback F       → identity == F.OwnerUsername
//	delete feedback F     → identity == F.OwnerUsername
//
// Each predicate is a pure function over (identity, target): no I/O, no
// mutation, no caching of decisions across requests. The anonymous identity
// is the empty string. A denial returns *apperror.AppError wrapping
// ErrForbidden, carrying the target resource identifier so the caller can
// redirect and show a message — and a denial guarantees nothing else
// happened, because the guard runs before any write.
package authz

import "github.com/sakif/commentator/internal/apperror"

// CanViewAccount reports whether the identity may view any account's detail
// page. Viewing requires being logged in, but NOT being the account's owner:
// any authenticated user may look at any profile.
func CanViewAccount(identity, target string) error {
	if identity == "" {
		return apperror.Forbidden("account", target)
	}
	return nil
}

// CanDeleteAccount permits only self-deletion. There is no admin override.
func CanDeleteAccount(identity, target string) error {
	if identity == "" || identity != target {
		return apperror.Forbidden("account", target)
	}
	return nil
}

// CanCreateFeedback permits creating feedback only on one's own profile.
func CanCreateFeedback(identity, owner string) error {
	if identity == "" || identity != owner {
		return apperror.Forbidden("account", owner)
	}
	return nil
}

// CanEditFeedback permits mutating a feedback item only by its owner.
// Reading the item's content is open to everyone and is not guarded.
func CanEditFeedback(identity, owner string, feedbackID int64) error {
	if identity == "" || identity != owner {
		return apperror.Forbidden("feedback", feedbackID)
	}
	return nil
}

// CanDeleteFeedback permits deleting a feedback item only by its owner.
func CanDeleteFeedback(identity, owner string, feedbackID int64) error {
	if identity == "" || identity != owner {
		return apperror.Forbidden("feedback", feedbackID)
	}
	return nil
}
