// Package totp implements time-based one-time-password generation and
// verification for authenticator-app second factors.
//
// Secrets are 20 random bytes, base32-encoded without padding. Verification
// accepts the code for the current 30-second step or any step within the
// configured drift window, to tolerate client clock skew.
package totp
