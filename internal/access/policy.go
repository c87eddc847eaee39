// Package access decides whether a requester's role satisfies a route's access level.
package access

import "restaurant_reviews/internal/model"

// IsAuthorized reports whether a requester may call a route guarded by level.
// identified is false when the request carries no resolved user, in which case
// role is ignored.
func IsAuthorized(level model.AccessLevel, role model.Role, identified bool) bool {
	if level == model.AccessGuest {
		return true
	}
	if !identified {
		return false
	}
	return int(level)&int(role) != 0
}
