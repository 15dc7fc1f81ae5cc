// Package password provides one-way adaptive password hashing for authkit.
//
// Hashes are bcrypt with a per-call random salt; the encoded form is
// self-describing (algorithm, cost, and salt are embedded), so cost changes
// apply only to newly created hashes and stored hashes keep verifying.
package password
