// Package memstore provides an in-memory implementation of the
// authkit.CredentialStore contract.
//
// It backs the package's own tests and is handy for prototypes and local
// development. Data lives only as long as the process; production
// deployments implement CredentialStore over their own database.
package memstore
