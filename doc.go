// Package workhive provides the account and notification core for the job
// marketplace API: credential verification, JWT issuance, route guarding,
// and inbox state transitions.
//
// Authentication:
//   - Accounts carry one of three roles (candidate, employer, admin) that is
//     persisted via Bun and embedded in token claims. AccountProvider verifies
//     email/password pairs and collapses every credential failure into the
//     same error so responses cannot be used to probe which emails exist.
//   - TokenService mints HMAC-signed access and refresh tokens with a
//     token_use claim pinning each token to its purpose. Auther composes the
//     provider and the token service into the login and refresh flows the
//     REST layer exposes.
//
// Route guarding:
//   - middleware/jwtware is the single chokepoint protected routes run
//     through. It extracts the bearer credential, validates it through a
//     TokenValidator, applies role checks (RequiredRole, AllowedRoles), and
//     stores the structured claims in both fiber locals and the request
//     context for downstream handlers.
//
// Notifications:
//   - Notifications are per-account inbox entries whose only mutable state is
//     the unread flag. MarkAllRead is a single conditional update scoped to
//     the owner, so repeated or concurrent calls converge on the same state
//     and report only the rows they actually transitioned.
package workhive
