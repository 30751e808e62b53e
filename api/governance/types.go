// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/governance"
	"github.com/econia-labs/econia-sub003/voting"
)

type Config struct {
	MinVotingThreshold    string `json:"minVotingThreshold"`
	RequiredProposerStake uint64 `json:"requiredProposerStake"`
	VotingPeriodSecs      uint64 `json:"votingPeriodSecs"`
}

type Proposal struct {
	ID                           uint64        `json:"id"`
	State                        string        `json:"state"`
	Proposer                     chain.Address `json:"proposer"`
	MetadataLocation             *string       `json:"metadataLocation"`
	MetadataHash                 *string       `json:"metadataHash"`
	CreationTimeSecs             uint64        `json:"creationTimeSecs"`
	ExpirationSecs               uint64        `json:"expirationSecs"`
	ExecutionHash                hexutil.Bytes `json:"executionHash"`
	MinVoteThreshold             string        `json:"minVoteThreshold"`
	EarlyResolutionVoteThreshold *string       `json:"earlyResolutionVoteThreshold"`
	YesVotes                     string        `json:"yesVotes"`
	NoVotes                      string        `json:"noVotes"`
	IsResolved                   bool          `json:"isResolved"`
}

func dec(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

func convertConfig(cfg *governance.Config) *Config {
	return &Config{
		MinVotingThreshold:    dec(cfg.MinVotingThreshold),
		RequiredProposerStake: cfg.RequiredProposerStake,
		VotingPeriodSecs:      cfg.VotingPeriodSecs,
	}
}

func convertProposal(id uint64, p *voting.Proposal[governance.GovernanceProposal], st voting.State) *Proposal {
	res := &Proposal{
		ID:               id,
		State:            st.String(),
		Proposer:         p.Proposer,
		CreationTimeSecs: p.CreationTimeSecs,
		ExpirationSecs:   p.ExpirationSecs,
		ExecutionHash:    p.ExecutionHash,
		MinVoteThreshold: dec(p.MinVoteThreshold),
		YesVotes:         dec(p.YesVotes),
		NoVotes:          dec(p.NoVotes),
		IsResolved:       p.IsResolved,
	}
	// released content is gone once resolved
	if p.HasContent {
		res.MetadataLocation = &p.Content.MetadataLocation
		res.MetadataHash = &p.Content.MetadataHash
	}
	if p.HasEarlyResolutionThreshold {
		s := dec(p.EarlyResolutionVoteThreshold)
		res.EarlyResolutionVoteThreshold = &s
	}
	return res
}
