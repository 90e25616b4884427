package workhive

import (
	"context"

	"github.com/workhive/workhive/middleware/jwtware"
)

// ValidationListener aliases the jwtware listener so consumers can use workhive helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter adapts jwtware.AuthClaims to workhive.AuthClaims and
// stores the claims in the standard context so repository and command code can
// read the caller identity without touching the transport layer.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}

// GuardValidator adapts a TokenService for the jwtware guard. The guard only
// ever sees access tokens; a refresh token presented as a bearer credential
// fails the token_use pin.
func GuardValidator(ts TokenService) jwtware.TokenValidator {
	return guardValidator{ts: ts}
}

type guardValidator struct {
	ts TokenService
}

func (g guardValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := g.ts.ValidateUse(tokenString, TokenUseAccess)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
