package auth

import (
	"github.com/getevo/evo/v2"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

// CurrentUser returns the authenticated user for the request, or nil.
func CurrentUser(request *evo.Request) *User {
	if request.User().Anonymous() {
		return nil
	}
	user, ok := request.User().Interface().(*User)
	if !ok {
		return nil
	}
	return user
}

// Middleware ensures the user is logged in and not blocked
func Middleware(request *evo.Request) error {
	user := CurrentUser(request)
	if user == nil {
		return response.ErrUnauthorized
	}
	if user.IsBlocked {
		return response.ErrForbidden
	}
	return request.Next()
}

// AdminMiddleware ensures the user is an administrator
func AdminMiddleware(request *evo.Request) error {
	user := CurrentUser(request)
	if user == nil {
		return response.ErrUnauthorized
	}
	if user.IsBlocked || user.Role != models.RoleAdmin {
		return response.ErrForbidden
	}
	return request.Next()
}

// StaffMiddleware ensures the user is HR or an administrator
func StaffMiddleware(request *evo.Request) error {
	user := CurrentUser(request)
	if user == nil {
		return response.ErrUnauthorized
	}
	if user.IsBlocked || (user.Role != models.RoleAdmin && user.Role != models.RoleHR) {
		return response.ErrForbidden
	}
	return request.Next()
}
