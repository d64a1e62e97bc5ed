package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the token type returned by login and expected in the
// Authorization header.
const BearerScheme = "bearer"
