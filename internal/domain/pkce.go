package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// CodeChallengeMethodS256 is the only supported PKCE transform. Plain is
// deliberately rejected: it defeats the point for public clients.
const CodeChallengeMethodS256 = "S256"

// ComputeCodeChallenge applies the S256 transform to a verifier.
func ComputeCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// VerifyCodeChallenge checks a verifier against a stored challenge in
// constant time.
func VerifyCodeChallenge(verifier, challenge string) bool {
	computed := ComputeCodeChallenge(verifier)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}
