// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Sessions

Admins exchange the configured password for a short-lived HS256 JWT:

	if err := auth.CheckAdminPassword(req.Password, cfg.AdminPassword); err != nil {
		// 401
	}
	token, expiresAt, err := jwt.Sign(auth.RoleAdmin)

Admin routes read it back from the Authorization header:

	claims, err := jwt.Verify(auth.BearerToken(r.Header.Get("Authorization")))

Verify checks the signing method, issuer and expiry.

# Voter Tokens

Voter tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateVoterToken()

Tokens are URL-safe base64 encoded and sent as X-Voter-Token when voting.

# ID Generation

Database records use random UUIDs:

	id := auth.GenerateID()

# IP Hashing

For privacy-preserving fraud detection:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
