// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
)

// State of a proposal.
type State uint64

const (
	StatePending   State = 0
	StateSucceeded State = 1
	StateFailed    State = 3
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Proposal is one ballot of a forum. Content is released once, on successful
// resolution; HasContent tracks whether it is still held.
type Proposal[T any] struct {
	Proposer         chain.Address
	HasContent       bool
	Content          T
	CreationTimeSecs uint64
	ExecutionHash    []byte
	MinVoteThreshold *uint256.Int
	ExpirationSecs   uint64

	HasEarlyResolutionThreshold  bool
	EarlyResolutionVoteThreshold *uint256.Int

	YesVotes   *uint256.Int
	NoVotes    *uint256.Int
	IsResolved bool
}

// Events are the handles of a forum.
type Events struct {
	CreateProposal  events.Handle
	RegisterForum   events.Handle
	ResolveProposal events.Handle
	Vote            events.Handle
}

// VotingForum is the per-account header of a forum; proposals live in a
// table keyed by id.
type VotingForum struct {
	ProposalType   string
	Events         Events
	NextProposalID uint64
}

type RegisterForumEvent struct {
	HostingAccount chain.Address `json:"hostingAccount"`
	ProposalType   string        `json:"proposalType"`
}

type CreateProposalEvent struct {
	ProposalID                   uint64        `json:"proposalId"`
	EarlyResolutionVoteThreshold *uint256.Int  `json:"earlyResolutionVoteThreshold"`
	ExecutionHash                hexutil.Bytes `json:"executionHash"`
	ExpirationSecs               uint64        `json:"expirationSecs"`
	MinVoteThreshold             *uint256.Int  `json:"minVoteThreshold"`
}

type VoteEvent struct {
	ProposalID uint64 `json:"proposalId"`
	NumVotes   uint64 `json:"numVotes"`
}

type ResolveProposalEvent struct {
	ProposalID    uint64       `json:"proposalId"`
	YesVotes      *uint256.Int `json:"yesVotes"`
	NoVotes       *uint256.Int `json:"noVotes"`
	ResolvedEarly bool         `json:"resolvedEarly"`
}
