// Package token mints the two credentials issued on successful
// authentication: short-lived signed access tokens and long-lived opaque
// refresh tokens.
//
// Access tokens are HS256 JWTs carrying the user's email and id; they are
// validated downstream by whatever gateway enforces authorization, not here.
// Refresh tokens are 64 bytes of random data, base64-encoded, opaque to the
// client, and meaningful only as an exact-match lookup key in the credential
// store.
package token
