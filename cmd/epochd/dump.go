// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/runtime"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func dumpLedger(w io.Writer, rt *runtime.Runtime) error {
	return rt.View(func(rd *runtime.Reader) error {
		info, err := rd.Epoch()
		if err != nil {
			return err
		}
		cfg, err := rd.StakeConfig()
		if err != nil {
			return err
		}
		set, err := rd.ValidatorSet()
		if err != nil {
			return err
		}
		perf, err := rd.Performance()
		if err != nil {
			return err
		}
		dumpConfig.Fdump(w, info, cfg, set, perf)
		for _, v := range set.ActiveValidators {
			pool, _, err := rd.Pool(v.Addr)
			if err != nil {
				return err
			}
			dumpConfig.Fdump(w, pool)
		}
		return nil
	})
}

func dumpAction(ctx *cli.Context) error {
	initLogger(ctx)

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	ok, err := n.rt.Initialized()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("data dir holds no ledger, run init first")
	}
	return dumpLedger(os.Stdout, n.rt)
}

// ownerOf derives the default owner address of a consensus key.
func ownerOf(pubkey []byte) chain.Address {
	return chain.Address(chain.Blake2b(pubkey))
}

func writeKey(w io.Writer, key *ecdsa.PrivateKey) error {
	pubkey, proof, err := pop.Prove(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "owner:             %s\nconsensusPubkey:   %s\nproofOfPossession: %s\n",
		ownerOf(pubkey), hexutil.Bytes(pubkey), hexutil.Bytes(proof))
	return err
}

func genkeyAction(ctx *cli.Context) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "generate key")
	}
	if out := ctx.String(outFlag.Name); out != "" {
		if err := os.WriteFile(out, []byte(hex.EncodeToString(crypto.FromECDSA(key))+"\n"), 0o600); err != nil {
			return errors.Wrap(err, "write key")
		}
	} else {
		fmt.Printf("privateKey:        %s\n", hex.EncodeToString(crypto.FromECDSA(key)))
	}
	return writeKey(os.Stdout, key)
}
