package workhive

import "github.com/google/uuid"

// parseAccountID parses a claims subject into an account uuid
func parseAccountID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// HasAccountUUID reports whether the claims subject is a parseable uuid.
func HasAccountUUID(claims AuthClaims) bool {
	if claims == nil {
		return false
	}
	_, err := parseAccountID(claims.AccountID())
	return err == nil
}
