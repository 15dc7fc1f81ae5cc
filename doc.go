// Package authkit implements credential authentication and session issuance:
// registration, password login, TOTP two-factor verification, single-use
// backup-code recovery, access/refresh token issuance, password reset, and
// email verification.
//
// The package is a library, not a service. Persistence and outbound email are
// collaborators supplied by the integrator through the [CredentialStore] and
// [EmailSender] contracts; [Engine] composes them with the leaf components
// (password hashing, TOTP, backup codes, token minting) into the use-case
// flows. A reference in-memory store lives in the memstore subpackage.
//
// Build an engine with [New]:
//
//	engine, err := authkit.New().
//		WithConfig(cfg).
//		WithStore(store).
//		WithMailer(mailer).
//		Build()
//
// All flows are stateless between requests. The "pending second factor"
// state after a password login with 2FA enabled is not held server-side: the
// client resubmits the user id to [Engine.VerifyTwoFactorLogin], and the id
// alone grants nothing: only the TOTP or backup-code check gates token
// issuance.
package authkit
