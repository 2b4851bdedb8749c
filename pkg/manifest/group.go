package manifest

import "errors"

// Group identifies a set of contracts that share a compressed secp256r1
// public key, each proving membership with a signature over its own hash.
// The decompiler treats group membership as metadata only: it has no
// signing key material to verify against, so Group carries the raw
// encoded fields rather than neo-go's *keys.PublicKey (that verification
// belongs to a node's deployment pipeline, not a static decompiler).
type Group struct {
	// PublicKeyHex is the hex-encoded compressed public key (33 bytes).
	PublicKeyHex string `json:"pubkey"`
	// Signature is the raw signature bytes proving group membership.
	Signature []byte `json:"signature"`
}

// IsValid checks that Group has well-formed, non-empty fields. It does
// not verify the signature cryptographically (see the type doc comment).
func (g *Group) IsValid() error {
	if len(g.PublicKeyHex) != 66 {
		return errors.New("public key must be 33 bytes hex-encoded")
	}
	if len(g.Signature) == 0 {
		return errors.New("empty group signature")
	}
	return nil
}
