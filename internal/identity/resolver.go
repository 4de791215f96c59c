// Package identity derives the session key for a request.
package identity

import (
	"strings"

	"github.com/google/uuid"

	"whattoeat/internal/session"
)

// CookieName carries the anonymous device id.
const CookieName = "anonId"

// TokenVerifier returns the account email carried by a bearer token.
type TokenVerifier interface {
	VerifyToken(token string) (email string, err error)
}

// Credentials are the identity inputs found on a request.
type Credentials struct {
	// Authorization is the raw header value, e.g. "Bearer eyJ...".
	Authorization string
	// AnonCookie is the anonId cookie value.
	AnonCookie string
	// AnonBody is an anonId echoed back in the request body by clients that
	// cannot keep cookies.
	AnonBody string
}

// Identity is the resolved session key. AnonID is always the device id in
// use (existing or minted); Minted reports that it was generated here and
// must be persisted by the response.
type Identity struct {
	Key    session.Key
	AnonID string
	Minted bool
}

type Resolver struct {
	tokens TokenVerifier
	newID  func() string
}

func NewResolver(tokens TokenVerifier) *Resolver {
	return &Resolver{tokens: tokens, newID: func() string { return uuid.NewString() }}
}

// Resolve never fails. Missing, malformed or expired credentials fall back
// to the anonymous identity.
func (r *Resolver) Resolve(c Credentials) Identity {
	id := Identity{AnonID: strings.TrimSpace(c.AnonCookie)}
	if id.AnonID == "" {
		id.AnonID = strings.TrimSpace(c.AnonBody)
	}
	if id.AnonID == "" {
		id.AnonID = r.newID()
		id.Minted = true
	}

	if email := r.account(c.Authorization); email != "" {
		id.Key = session.AccountKey(email)
	} else {
		id.Key = session.AnonymousKey(id.AnonID)
	}
	return id
}

func (r *Resolver) account(header string) string {
	token := BearerToken(header)
	if token == "" || r.tokens == nil {
		return ""
	}
	email, err := r.tokens.VerifyToken(token)
	if err != nil {
		return ""
	}
	return email
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
