// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identities, passwords and bearer tokens.

# Identities

An Identity is the verified caller of a request:

	id := auth.Identity{UserID: userID, Email: email, Role: models.RoleStudent}
	id.IsStudent() // true
	id.IsStaff()   // true for ORGANIZER and ADMIN

middleware.RequireAuth stores it on the request context with WithIdentity;
handlers read it back with FromContext.

# Tokens

Bearer tokens are HS256 JWTs carrying sub, email, role, iat and exp:

	token, err := auth.IssueToken(id, secret, 24*time.Hour)
	id, err := auth.ParseToken(token, secret)

ParseToken returns ErrInvalidToken for expired, tampered or unsigned tokens.

# Passwords

Passwords are stored as bcrypt hashes and must be at least 8 characters:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

# ID Generation

Every row id is a random UUID:

	id := auth.NewID()
*/
package auth
