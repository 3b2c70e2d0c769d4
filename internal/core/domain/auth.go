package domain

import (
	"slices"
	"strings"
	"time"
)

// Scope is a permission string a bearer token must carry.
type Scope string

// Config API scopes
const (
	ScopeCreateConfig Scope = "create:config"
	ScopeReadConfig   Scope = "read:config"
	ScopeUpdateConfig Scope = "update:config"
	ScopeDeleteConfig Scope = "delete:config"
)

// AuthContext contains the verified bearer token principal for request context
type AuthContext struct {
	Subject string   `json:"sub"`
	Scopes  []string `json:"scopes"`
}

// HasScope reports whether the principal was granted the scope.
func (a *AuthContext) HasScope(scope Scope) bool {
	return slices.Contains(a.Scopes, string(scope))
}

// ParseScopes splits a space-delimited scope claim.
func ParseScopes(claim string) []string {
	return strings.Fields(claim)
}

// Profile is the identity provider's userinfo document.
type Profile map[string]any

// Subject returns the "sub" claim of the profile.
func (p Profile) Subject() string {
	sub, _ := p["sub"].(string)
	return sub
}

// Session is a browser session created by a successful login callback
type Session struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
