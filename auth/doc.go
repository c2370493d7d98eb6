// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides demo sign-in and session token utilities.

There is no credential check anywhere. The role only decides which dashboard
a user may load.

# Roles

	role, err := auth.ResolveRole(auth.ModeLogin, "admin@city.gov", "")  // official
	role, err := auth.ResolveRole(auth.ModeSignup, "a@b.c", "official")  // official

Login grants official when the email contains "admin" (case-insensitive) and
citizen otherwise. Signup uses the requested role; an empty role means
citizen and anything else is ErrInvalidRole.

NewUser combines role resolution with a random ID and a display name that
falls back to the email's local part.

# Session Tokens

	token, err := auth.IssueToken(user, salt)
	user, err := auth.ParseToken(token, salt)

Tokens are "<payload>.<signature>": the user as URL-safe base64 JSON and an
HMAC-SHA256 of that payload keyed by salt. They are stateless, so nothing is
stored server side and a restart with the same salt keeps them valid.

# IP Hashing

For correlating votes in logs without recording addresses:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
