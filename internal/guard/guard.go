// Package guard turns session state into navigation decisions. It is a
// pure consumer of the session store: it never mutates anything, it only
// answers "may this navigation proceed, and if not, where to instead".
package guard

import (
	"strings"

	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
)

// Decision is the outcome of a guard check, exposed as data so the router
// (outside this core) performs the actual navigation.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Rule restricts one route prefix to a set of roles. An empty Roles slice
// means any authenticated user may enter.
type Rule struct {
	Prefix string
	Roles  []models.Role
}

const loginRoute = "/login"

// HomeRoute is the role-based landing page used after login and as the
// redirect target for role-mismatched navigation.
func HomeRoute(role models.Role) string {
	switch role {
	case models.RoleCompany:
		return "/company/dashboard"
	case models.RoleAdmin:
		return "/admin"
	default:
		return "/dashboard"
	}
}

// Guard evaluates navigation against the live session.
type Guard struct {
	session *session.Store
	rules   []Rule
}

// New constructs a guard over the given session store and rules. Rules
// are checked in order; the first matching prefix wins.
func New(sess *session.Store, rules []Rule) *Guard {
	return &Guard{session: sess, rules: rules}
}

// Check decides whether navigating to route is allowed for the current
// session. Anonymous users are sent to the login page for any guarded
// route; authenticated users with the wrong role are sent to their own
// home route.
func (g *Guard) Check(route string) Decision {
	rule := g.match(route)
	if rule == nil {
		return Decision{Allowed: true}
	}

	if g.session.Status() != session.StatusAuthenticated {
		return Decision{Allowed: false, RedirectTo: loginRoute}
	}

	user := g.session.User()
	if user == nil {
		return Decision{Allowed: false, RedirectTo: loginRoute}
	}
	if len(rule.Roles) == 0 {
		return Decision{Allowed: true}
	}
	for _, r := range rule.Roles {
		if user.Role == r {
			return Decision{Allowed: true}
		}
	}
	return Decision{Allowed: false, RedirectTo: HomeRoute(user.Role)}
}

// match finds the first rule whose prefix covers route. Prefixes bind on
// path-segment boundaries, so "/company" guards "/company/jobs" but not
// "/companyfoo".
func (g *Guard) match(route string) *Rule {
	for i := range g.rules {
		p := g.rules[i].Prefix
		if route == p || strings.HasPrefix(route, p+"/") {
			return &g.rules[i]
		}
	}
	return nil
}
