// Package fingerprint computes the content-addressable cache keys of
// spec.md §4.5: "Fingerprints combine variant tag, canonical variable
// indices, and child fingerprints (structural)." It follows the teacher's
// core/planfmt pattern of canonical-encode-then-hash (CBOR for a
// deterministic byte encoding, BLAKE2b-256 for a fixed-size digest) rather
// than hashing Go's non-deterministic fmt/reflect representations.
package fingerprint

import (
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/sybila/hctl-symbolic/pkgs/ast"
)

// Digest is a fixed-size structural fingerprint, usable as a map key.
type Digest [32]byte

// canonicalNode is the CBOR wire shape fingerprints are computed over. Name
// is left empty for every node whose meaning is already captured by its
// canonical Index (KVar, KBind, KJump, KExists, KForall) — two α-equivalent
// sub-formulas differing only in surface hybrid-variable names must
// fingerprint identically, which is exactly invariant 5 of spec.md §8
// ("Canonical-index stability"). KProp and KWildCard carry no canonical
// index at all: their entire meaning lives in Name (ast.Prop/ast.WildCard
// leave Index at its zero value), so Name must be included for those two
// kinds or distinct propositions collide on the same fingerprint.
type canonicalNode struct {
	Kind  int
	Bool  bool
	Index int
	Name  string `cbor:",omitempty"`
	Left  *Digest `cbor:",omitempty"`
	Right *Digest `cbor:",omitempty"`
	Child *Digest `cbor:",omitempty"`
}

var encMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(err) // fixed option set; cannot fail at runtime
	}
	return mode
}()

// Of computes the structural fingerprint of f, recursing bottom-up so each
// child is hashed once and its digest embedded in the parent's encoding
// (spec.md §4.5 / §9: "child fingerprints (structural)").
func Of(f *ast.Formula) (Digest, error) {
	if f == nil {
		return Digest{}, nil
	}
	n := canonicalNode{Kind: int(f.Kind), Bool: f.BoolValue, Index: f.Index}
	if f.Kind == ast.KProp || f.Kind == ast.KWildCard {
		n.Name = f.Name
	}

	if f.Left != nil {
		d, err := Of(f.Left)
		if err != nil {
			return Digest{}, err
		}
		n.Left = &d
	}
	if f.Right != nil {
		d, err := Of(f.Right)
		if err != nil {
			return Digest{}, err
		}
		n.Right = &d
	}
	if f.Child != nil {
		d, err := Of(f.Child)
		if err != nil {
			return Digest{}, err
		}
		n.Child = &d
	}

	encoded, err := encMode.Marshal(n)
	if err != nil {
		return Digest{}, err
	}
	return blake2b.Sum256(encoded), nil
}
