// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voting implements a generic proposal forum. Votes are weighted by
// the caller; a forum neither authenticates voters nor dedupes them.
package voting

import (
	"bytes"
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/state"
)

const throw = reverts.Thrower("voting")

// abort reasons
const (
	EPROPOSAL_EXECUTION_HASH_NOT_MATCHING uint64 = 1
	EPROPOSAL_CANNOT_BE_RESOLVED          uint64 = 2
	EPROPOSAL_ALREADY_RESOLVED            uint64 = 3
	EPROPOSAL_VOTING_ALREADY_ENDED        uint64 = 4
	EPROPOSAL_NOT_FOUND                   uint64 = 5
	EFORUM_NOT_FOUND                      uint64 = 6
	EFORUM_ALREADY_EXISTS                 uint64 = 7
	EEMPTY_EXECUTION_HASH                 uint64 = 8
	EOVERFLOW                             uint64 = 9
)

var (
	logger = log.WithContext("pkg", "voting")

	maxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

// Clock provides the ledger time.
type Clock interface {
	NowSeconds() (uint64, error)
}

// Forum hosts proposals carrying content of type T. Forums of different
// content types live side by side at the same account.
type Forum[T any] struct {
	state     *state.State
	clock     Clock
	typeName  string
	forums    state.Resource[VotingForum]
	proposals state.Table[Proposal[T]]
}

// New binds a forum of the named proposal type.
func New[T any](st *state.State, clock Clock, typeName string) *Forum[T] {
	return &Forum[T]{
		state:     st,
		clock:     clock,
		typeName:  typeName,
		forums:    state.NewResource[VotingForum]("voting::VotingForum<" + typeName + ">"),
		proposals: state.NewTable[Proposal[T]]("voting::Proposal<" + typeName + ">"),
	}
}

func proposalKey(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// Register publishes an empty forum at account.
func (f *Forum[T]) Register(account chain.Address) error {
	exists, err := f.forums.Exists(f.state, account)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(EFORUM_ALREADY_EXISTS, "%s forum already registered at %s", f.typeName, account.ShortString())
	}
	forum := &VotingForum{ProposalType: f.typeName}
	for _, h := range []*events.Handle{
		&forum.Events.CreateProposal,
		&forum.Events.RegisterForum,
		&forum.Events.ResolveProposal,
		&forum.Events.Vote,
	} {
		if *h, err = events.NewHandle(f.state, account); err != nil {
			return err
		}
	}
	events.Emit(f.state, &forum.Events.RegisterForum, "RegisterForumEvent", &RegisterForumEvent{
		HostingAccount: account,
		ProposalType:   f.typeName,
	})
	return f.forums.Put(f.state, account, forum)
}

// IsRegistered reports whether a forum exists at account.
func (f *Forum[T]) IsRegistered(account chain.Address) (bool, error) {
	return f.forums.Exists(f.state, account)
}

func (f *Forum[T]) forum(addr chain.Address) (*VotingForum, error) {
	forum, exist, err := f.forums.Get(f.state, addr)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(EFORUM_NOT_FOUND, "no %s forum at %s", f.typeName, addr.ShortString())
	}
	return forum, nil
}

// Proposal returns a proposal by id.
func (f *Forum[T]) Proposal(forumAddr chain.Address, id uint64) (*Proposal[T], error) {
	p, exist, err := f.proposals.Get(f.state, forumAddr, proposalKey(id))
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(EPROPOSAL_NOT_FOUND, "proposal %d not found", id)
	}
	return p, nil
}

// NextProposalID returns the id the next proposal will get.
func (f *Forum[T]) NextProposalID(forumAddr chain.Address) (uint64, error) {
	forum, err := f.forum(forumAddr)
	if err != nil {
		return 0, err
	}
	return forum.NextProposalID, nil
}

// CreateProposal stores a new proposal and returns its id. A nil
// earlyThreshold disables early resolution.
func (f *Forum[T]) CreateProposal(
	proposer chain.Address,
	forumAddr chain.Address,
	content T,
	executionHash []byte,
	minVoteThreshold *uint256.Int,
	expirationSecs uint64,
	earlyThreshold *uint256.Int,
) (uint64, error) {
	if len(executionHash) == 0 {
		return 0, throw.InvalidArgument(EEMPTY_EXECUTION_HASH, "execution hash is empty")
	}
	if minVoteThreshold == nil {
		minVoteThreshold = new(uint256.Int)
	}
	forum, err := f.forum(forumAddr)
	if err != nil {
		return 0, err
	}
	now, err := f.clock.NowSeconds()
	if err != nil {
		return 0, err
	}

	id := forum.NextProposalID
	forum.NextProposalID++
	p := &Proposal[T]{
		Proposer:                     proposer,
		HasContent:                   true,
		Content:                      content,
		CreationTimeSecs:             now,
		ExecutionHash:                bytes.Clone(executionHash),
		MinVoteThreshold:             minVoteThreshold.Clone(),
		ExpirationSecs:               expirationSecs,
		EarlyResolutionVoteThreshold: new(uint256.Int),
		YesVotes:                     new(uint256.Int),
		NoVotes:                      new(uint256.Int),
	}
	if earlyThreshold != nil {
		p.HasEarlyResolutionThreshold = true
		p.EarlyResolutionVoteThreshold = earlyThreshold.Clone()
	}
	if err := f.proposals.Put(f.state, forumAddr, proposalKey(id), p); err != nil {
		return 0, err
	}

	ev := &CreateProposalEvent{
		ProposalID:       id,
		ExecutionHash:    p.ExecutionHash,
		ExpirationSecs:   expirationSecs,
		MinVoteThreshold: p.MinVoteThreshold,
	}
	if p.HasEarlyResolutionThreshold {
		ev.EarlyResolutionVoteThreshold = p.EarlyResolutionVoteThreshold
	}
	events.Emit(f.state, &forum.Events.CreateProposal, "CreateProposalEvent", ev)
	if err := f.forums.Put(f.state, forumAddr, forum); err != nil {
		return 0, err
	}
	logger.Debug("proposal created", "type", f.typeName, "id", id, "proposer", proposer.ShortString(), "expiration", expirationSecs)
	return id, nil
}

func (p *Proposal[T]) canBeResolvedEarly() bool {
	if !p.HasEarlyResolutionThreshold {
		return false
	}
	return !p.YesVotes.Lt(p.EarlyResolutionVoteThreshold) || !p.NoVotes.Lt(p.EarlyResolutionVoteThreshold)
}

func (p *Proposal[T]) isVotingClosed(now uint64) bool {
	return p.canBeResolvedEarly() || now >= p.ExpirationSecs
}

func (p *Proposal[T]) state(now uint64) State {
	if !p.isVotingClosed(now) {
		return StatePending
	}
	total, overflow := new(uint256.Int).AddOverflow(p.YesVotes, p.NoVotes)
	if !overflow && !total.Lt(p.MinVoteThreshold) && p.YesVotes.Gt(p.NoVotes) {
		return StateSucceeded
	}
	return StateFailed
}

// Vote adds numVotes to either side of a proposal still open for voting.
func (f *Forum[T]) Vote(forumAddr chain.Address, id uint64, numVotes uint64, shouldPass bool) error {
	forum, err := f.forum(forumAddr)
	if err != nil {
		return err
	}
	p, err := f.Proposal(forumAddr, id)
	if err != nil {
		return err
	}
	now, err := f.clock.NowSeconds()
	if err != nil {
		return err
	}
	if p.IsResolved || p.isVotingClosed(now) {
		return throw.InvalidState(EPROPOSAL_VOTING_ALREADY_ENDED, "voting on proposal %d has ended", id)
	}

	tally := p.NoVotes
	if shouldPass {
		tally = p.YesVotes
	}
	tally.Add(tally, uint256.NewInt(numVotes))
	if tally.Gt(maxU128) {
		return throw.OutOfRange(EOVERFLOW, "vote tally of proposal %d overflows", id)
	}
	if err := f.proposals.Put(f.state, forumAddr, proposalKey(id), p); err != nil {
		return err
	}
	events.Emit(f.state, &forum.Events.Vote, "VoteEvent", &VoteEvent{ProposalID: id, NumVotes: numVotes})
	return f.forums.Put(f.state, forumAddr, forum)
}

// State returns the current state of a proposal.
func (f *Forum[T]) State(forumAddr chain.Address, id uint64) (State, error) {
	p, err := f.Proposal(forumAddr, id)
	if err != nil {
		return 0, err
	}
	now, err := f.clock.NowSeconds()
	if err != nil {
		return 0, err
	}
	return p.state(now), nil
}

// IsVotingClosed reports whether a proposal accepts no more votes.
func (f *Forum[T]) IsVotingClosed(forumAddr chain.Address, id uint64) (bool, error) {
	p, err := f.Proposal(forumAddr, id)
	if err != nil {
		return false, err
	}
	now, err := f.clock.NowSeconds()
	if err != nil {
		return false, err
	}
	return p.isVotingClosed(now), nil
}

// CanBeResolvedEarly reports whether either side reached the early
// resolution threshold.
func (f *Forum[T]) CanBeResolvedEarly(forumAddr chain.Address, id uint64) (bool, error) {
	p, err := f.Proposal(forumAddr, id)
	if err != nil {
		return false, err
	}
	return p.canBeResolvedEarly(), nil
}

// ExpirationSecs returns when voting on a proposal ends.
func (f *Forum[T]) ExpirationSecs(forumAddr chain.Address, id uint64) (uint64, error) {
	p, err := f.Proposal(forumAddr, id)
	if err != nil {
		return 0, err
	}
	return p.ExpirationSecs, nil
}

// Resolve releases the content of a succeeded proposal. scriptHash must match
// the execution hash recorded at creation; content is released only once.
func (f *Forum[T]) Resolve(forumAddr chain.Address, id uint64, scriptHash []byte) (T, error) {
	var zero T
	forum, err := f.forum(forumAddr)
	if err != nil {
		return zero, err
	}
	p, err := f.Proposal(forumAddr, id)
	if err != nil {
		return zero, err
	}
	now, err := f.clock.NowSeconds()
	if err != nil {
		return zero, err
	}
	if st := p.state(now); st != StateSucceeded {
		return zero, throw.InvalidState(EPROPOSAL_CANNOT_BE_RESOLVED, "proposal %d is %s", id, st)
	}
	if p.IsResolved || !p.HasContent {
		return zero, throw.InvalidState(EPROPOSAL_ALREADY_RESOLVED, "proposal %d already resolved", id)
	}
	if !bytes.Equal(p.ExecutionHash, scriptHash) {
		return zero, throw.InvalidArgument(EPROPOSAL_EXECUTION_HASH_NOT_MATCHING, "execution hash of proposal %d does not match", id)
	}

	resolvedEarly := p.canBeResolvedEarly()
	content := p.Content
	p.Content = zero
	p.HasContent = false
	p.IsResolved = true
	if err := f.proposals.Put(f.state, forumAddr, proposalKey(id), p); err != nil {
		return zero, err
	}
	events.Emit(f.state, &forum.Events.ResolveProposal, "ResolveProposal", &ResolveProposalEvent{
		ProposalID:    id,
		YesVotes:      p.YesVotes,
		NoVotes:       p.NoVotes,
		ResolvedEarly: resolvedEarly,
	})
	if err := f.forums.Put(f.state, forumAddr, forum); err != nil {
		return zero, err
	}
	logger.Debug("proposal resolved", "type", f.typeName, "id", id, "early", resolvedEarly)
	return content, nil
}
