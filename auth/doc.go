// Package auth issues and verifies the bearer tokens of the marketplace API.
//
// Tokens are HS256 JWTs signed with ACCESS_TOKEN_SECRET and valid for one hour.
// What gets signed is decided by a CredentialVerifier: TrustVerifier signs the
// caller's payload unchanged, PasswordVerifier requires a password matching the
// bcrypt hash on the user record.
package auth
