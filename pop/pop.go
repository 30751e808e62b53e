// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pop verifies proofs of possession of consensus keys.
package pop

import (
	"bytes"
	"crypto/ecdsa"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/econia-labs/econia-sub003/chain"
)

// CompressedPubKeyLen is the length of an accepted consensus public key.
const CompressedPubKeyLen = secp256k1.PubKeyBytesLenCompressed

var domain = []byte("proof-of-possession")

// Verifier checks a proof of possession for a consensus public key.
type Verifier interface {
	VerifyProofOfPossession(pubkey, proof []byte) bool
}

// Secp256k1Verifier accepts compressed secp256k1 keys whose proof is a
// recoverable signature over the key itself.
type Secp256k1Verifier struct{}

var _ Verifier = Secp256k1Verifier{}

// Message returns the hash signed by a proof of possession.
func Message(pubkey []byte) chain.Bytes32 {
	return chain.Blake2b(domain, pubkey)
}

// VerifyProofOfPossession implements Verifier.
func (Secp256k1Verifier) VerifyProofOfPossession(pubkey, proof []byte) bool {
	if len(pubkey) != CompressedPubKeyLen || len(proof) != crypto.SignatureLength {
		return false
	}
	if _, err := secp256k1.ParsePubKey(pubkey); err != nil {
		return false
	}
	msg := Message(pubkey)
	recovered, err := crypto.SigToPub(msg[:], proof)
	if err != nil {
		return false
	}
	return bytes.Equal(crypto.CompressPubkey(recovered), pubkey)
}

// Prove returns the compressed public key of priv and its proof of possession.
func Prove(priv *ecdsa.PrivateKey) (pubkey []byte, proof []byte, err error) {
	pubkey = crypto.CompressPubkey(&priv.PublicKey)
	msg := Message(pubkey)
	proof, err = crypto.Sign(msg[:], priv)
	if err != nil {
		return nil, nil, err
	}
	return pubkey, proof, nil
}

// AllowAll accepts any non-empty key. Only meant for tests and simulations.
type AllowAll struct{}

// VerifyProofOfPossession implements Verifier.
func (AllowAll) VerifyProofOfPossession(pubkey, _ []byte) bool {
	return len(pubkey) > 0
}
