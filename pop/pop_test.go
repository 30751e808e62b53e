// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pop

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecp256k1Verifier(t *testing.T) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	pubkey, proof, err := Prove(priv)
	require.NoError(t, err)
	assert.Len(t, pubkey, CompressedPubKeyLen)

	otherKey, otherProof, err := Prove(other)
	require.NoError(t, err)

	var v Secp256k1Verifier
	assert.True(t, v.VerifyProofOfPossession(pubkey, proof))
	assert.False(t, v.VerifyProofOfPossession(pubkey, otherProof), "proof of another key")
	assert.False(t, v.VerifyProofOfPossession(otherKey, proof))
	assert.False(t, v.VerifyProofOfPossession(pubkey[:32], proof), "short key")
	assert.False(t, v.VerifyProofOfPossession(crypto.FromECDSAPub(&priv.PublicKey), proof), "uncompressed key")
	assert.False(t, v.VerifyProofOfPossession(pubkey, proof[:64]), "short proof")

	bad := append([]byte{0x05}, pubkey[1:]...)
	assert.False(t, v.VerifyProofOfPossession(bad, proof), "invalid prefix")
}

func TestAllowAll(t *testing.T) {
	assert.True(t, AllowAll{}.VerifyProofOfPossession([]byte{1}, nil))
	assert.False(t, AllowAll{}.VerifyProofOfPossession(nil, nil))
}
