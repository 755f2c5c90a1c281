// Package gate implements route-level access guards. Both gates are pure
// functions of session state: nil user means unauthenticated, and nothing
// else may decide auth. Neither performs I/O.
package gate

import "github.com/kshzz24/scalable-chat-app/internal/store"

// Route names understood by the navigation layer.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// Decision is the outcome of evaluating a gate.
type Decision struct {
	Allow    bool
	Redirect string // target route when Allow is false
}

// Protected guards authenticated-only routes: unauthenticated users are
// redirected to login.
func Protected(u *store.User) Decision {
	if u == nil {
		return Decision{Redirect: RouteLogin}
	}
	return Decision{Allow: true}
}

// GuestOnly guards auth pages: authenticated users are redirected home.
func GuestOnly(u *store.User) Decision {
	if u != nil {
		return Decision{Redirect: RouteHome}
	}
	return Decision{Allow: true}
}
