// Package backupcode generates and verifies single-use recovery codes that
// substitute for a TOTP code when the authenticator device is unavailable.
//
// Codes are drawn from a confusion-resistant alphabet (no 0/O/1/I), shown to
// the user once as XXXXX-XXXXX, and persisted only as bcrypt hashes.
package backupcode
