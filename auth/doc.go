// Package auth provides token issuance, password hashing, and the HTTP
// middleware that binds a request to its owner.
//
// Tokens are HS256 JWTs carrying the user ID. The middleware is the only
// place a request's owner is established; handlers read it from the context
// and never trust identifiers from the request body.
package auth
