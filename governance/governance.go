// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance runs stake weighted on-chain governance over a voting
// forum hosted at the framework account.
package governance

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/metrics"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/voting"
)

const throw = reverts.Thrower("governance")

// abort reasons
const (
	EINSUFFICIENT_PROPOSER_STAKE uint64 = 1
	ENOT_DELEGATED_VOTER         uint64 = 2
	EINSUFFICIENT_STAKE_LOCKUP   uint64 = 3
	EALREADY_VOTED               uint64 = 4
	ENO_VOTING_POWER             uint64 = 5
	ENOT_CORE_RESOURCE           uint64 = 6
	EOVERFLOW                    uint64 = 7
	ENOT_INITIALIZED             uint64 = 8
)

// ProposalType names the forum that hosts governance proposals.
const ProposalType = "governance_proposal::GovernanceProposal"

var (
	logger = log.WithContext("pkg", "governance")

	metricProposals = metrics.LazyLoadCounter("governance_proposals_total")
	metricVotes     = metrics.LazyLoadCounterVec("governance_votes_total", []string{"side"})
)

// GovernanceProposal is the content released to the executor of a passed proposal.
type GovernanceProposal struct {
	MetadataLocation string
	MetadataHash     string
}

// Config of governance.
type Config struct {
	MinVotingThreshold    *uint256.Int `json:"minVotingThreshold"`
	RequiredProposerStake uint64       `json:"requiredProposerStake"`
	VotingPeriodSecs      uint64       `json:"votingPeriodSecs"`
}

type governanceEvents struct {
	CreateProposal events.Handle
	UpdateConfig   events.Handle
	Vote           events.Handle
}

type CreateProposalEvent struct {
	Proposer         chain.Address `json:"proposer"`
	StakePool        chain.Address `json:"stakePool"`
	ProposalID       uint64        `json:"proposalId"`
	ExecutionHash    hexutil.Bytes `json:"executionHash"`
	MetadataLocation hexutil.Bytes `json:"metadataLocation"`
	MetadataHash     hexutil.Bytes `json:"metadataHash"`
}

type VoteEvent struct {
	ProposalID uint64        `json:"proposalId"`
	Voter      chain.Address `json:"voter"`
	StakePool  chain.Address `json:"stakePool"`
	NumVotes   uint64        `json:"numVotes"`
	ShouldPass bool          `json:"shouldPass"`
}

type UpdateConfigEvent struct {
	MinVotingThreshold    *uint256.Int `json:"minVotingThreshold"`
	RequiredProposerStake uint64       `json:"requiredProposerStake"`
	VotingPeriodSecs      uint64       `json:"votingPeriodSecs"`
}

// ExecutionContext exposes the hash of the script being executed.
type ExecutionContext interface {
	ScriptHash() []byte
}

// ScriptHash is an ExecutionContext over a known hash.
type ScriptHash []byte

func (h ScriptHash) ScriptHash() []byte { return h }

// Clock provides the ledger time.
type Clock interface {
	NowSeconds() (uint64, error)
}

var (
	configs      = state.NewResource[Config]("governance::GovernanceConfig")
	eventHandles = state.NewResource[governanceEvents]("governance::GovernanceEvents")
	votingRecord = state.NewTable[bool]("governance::VotingRecords")
)

// Governance binds the forum to stake pools.
type Governance struct {
	state  *state.State
	clock  Clock
	staker *stake.Stake
	coins  *coin.Ledger
	forum  *voting.Forum[GovernanceProposal]
}

// New create a new instance.
func New(st *state.State, clock Clock, staker *stake.Stake, coins *coin.Ledger) *Governance {
	return &Governance{
		state:  st,
		clock:  clock,
		staker: staker,
		coins:  coins,
		forum:  voting.New[GovernanceProposal](st, clock, ProposalType),
	}
}

// Forum returns the underlying proposal forum.
func (g *Governance) Forum() *voting.Forum[GovernanceProposal] {
	return g.forum
}

// Initialize registers the forum and publishes the configuration.
func (g *Governance) Initialize(account chain.Address, cfg Config) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	if err := g.forum.Register(chain.FrameworkAddress); err != nil {
		return err
	}
	var (
		evs governanceEvents
		err error
	)
	for _, h := range []*events.Handle{&evs.CreateProposal, &evs.UpdateConfig, &evs.Vote} {
		if *h, err = events.NewHandle(g.state, chain.FrameworkAddress); err != nil {
			return err
		}
	}
	if err := eventHandles.Put(g.state, chain.FrameworkAddress, &evs); err != nil {
		return err
	}
	return configs.Put(g.state, chain.FrameworkAddress, normalize(cfg))
}

func normalize(cfg Config) *Config {
	if cfg.MinVotingThreshold == nil {
		cfg.MinVotingThreshold = new(uint256.Int)
	} else {
		cfg.MinVotingThreshold = cfg.MinVotingThreshold.Clone()
	}
	return &cfg
}

// GetConfig returns the current configuration.
func (g *Governance) GetConfig() (*Config, error) {
	cfg, exist, err := configs.Get(g.state, chain.FrameworkAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ENOT_INITIALIZED, "governance not initialized")
	}
	return cfg, nil
}

func (g *Governance) events() (*governanceEvents, error) {
	evs, exist, err := eventHandles.Get(g.state, chain.FrameworkAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ENOT_INITIALIZED, "governance not initialized")
	}
	return evs, nil
}

// UpdateGovernanceConfig replaces the configuration.
func (g *Governance) UpdateGovernanceConfig(account chain.Address, cfg Config) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	if _, err := g.GetConfig(); err != nil {
		return err
	}
	evs, err := g.events()
	if err != nil {
		return err
	}
	next := normalize(cfg)
	if err := configs.Put(g.state, chain.FrameworkAddress, next); err != nil {
		return err
	}
	events.Emit(g.state, &evs.UpdateConfig, "UpdateConfigEvent", &UpdateConfigEvent{
		MinVotingThreshold:    next.MinVotingThreshold,
		RequiredProposerStake: next.RequiredProposerStake,
		VotingPeriodSecs:      next.VotingPeriodSecs,
	})
	return eventHandles.Put(g.state, chain.FrameworkAddress, evs)
}

func (g *Governance) assertDelegatedVoter(voter, pool chain.Address) error {
	ok, err := g.staker.IsDelegatedVoter(pool, voter)
	if err != nil {
		return err
	}
	if !ok {
		return throw.PermissionDenied(ENOT_DELEGATED_VOTER, "%s is not the delegated voter of %s", voter.ShortString(), pool.ShortString())
	}
	return nil
}

func (g *Governance) assertLockup(pool chain.Address, until uint64) error {
	lockup, err := g.staker.GetLockupSecs(pool)
	if err != nil {
		return err
	}
	if lockup < until {
		return throw.InvalidArgument(EINSUFFICIENT_STAKE_LOCKUP, "pool %s locked until %d, needs %d", pool.ShortString(), lockup, until)
	}
	return nil
}

// CreateProposal opens a proposal backed by the stake of pool. The proposer
// must be the delegated voter of the pool.
func (g *Governance) CreateProposal(proposer, pool chain.Address, executionHash, metadataLocation, metadataHash []byte) (uint64, error) {
	if err := g.assertDelegatedVoter(proposer, pool); err != nil {
		return 0, err
	}
	cfg, err := g.GetConfig()
	if err != nil {
		return 0, err
	}
	balances, err := g.staker.GetStake(pool)
	if err != nil {
		return 0, err
	}
	if balances.Active < cfg.RequiredProposerStake {
		return 0, throw.InvalidArgument(EINSUFFICIENT_PROPOSER_STAKE, "active stake %d below required %d", balances.Active, cfg.RequiredProposerStake)
	}
	now, err := g.clock.NowSeconds()
	if err != nil {
		return 0, err
	}
	expiration, overflow := math.SafeAdd(now, cfg.VotingPeriodSecs)
	if overflow {
		return 0, throw.OutOfRange(EOVERFLOW, "proposal expiration overflows")
	}
	if err := g.assertLockup(pool, expiration); err != nil {
		return 0, err
	}

	var early *uint256.Int
	supply, tracked, err := g.coins.Supply()
	if err != nil {
		return 0, err
	}
	if tracked {
		early = new(uint256.Int).Rsh(supply, 1)
		early.AddUint64(early, 1)
	}

	id, err := g.forum.CreateProposal(
		proposer,
		chain.FrameworkAddress,
		GovernanceProposal{MetadataLocation: string(metadataLocation), MetadataHash: string(metadataHash)},
		executionHash,
		cfg.MinVotingThreshold,
		expiration,
		early,
	)
	if err != nil {
		return 0, err
	}
	evs, err := g.events()
	if err != nil {
		return 0, err
	}
	events.Emit(g.state, &evs.CreateProposal, "CreateProposalEvent", &CreateProposalEvent{
		Proposer:         proposer,
		StakePool:        pool,
		ProposalID:       id,
		ExecutionHash:    executionHash,
		MetadataLocation: metadataLocation,
		MetadataHash:     metadataHash,
	})
	if err := eventHandles.Put(g.state, chain.FrameworkAddress, evs); err != nil {
		return 0, err
	}
	metricProposals().Add(1)
	logger.Info("governance proposal created", "id", id, "pool", pool.ShortString(), "expiration", expiration)
	return id, nil
}

func recordKey(pool chain.Address, id uint64) []byte {
	b := make([]byte, 0, len(pool)+8)
	b = append(b, pool[:]...)
	return binary.BigEndian.AppendUint64(b, id)
}

// HasVoted reports whether pool already voted on the proposal.
func (g *Governance) HasVoted(pool chain.Address, id uint64) (bool, error) {
	return votingRecord.Contains(g.state, chain.FrameworkAddress, recordKey(pool, id))
}

// Vote casts the active stake of pool on a proposal. Each pool votes once
// per proposal; its weight is read at vote time.
func (g *Governance) Vote(voter, pool chain.Address, id uint64, shouldPass bool) error {
	if err := g.assertDelegatedVoter(voter, pool); err != nil {
		return err
	}
	balances, err := g.staker.GetStake(pool)
	if err != nil {
		return err
	}
	if balances.Active == 0 {
		return throw.InvalidArgument(ENO_VOTING_POWER, "pool %s has no voting power", pool.ShortString())
	}
	expiration, err := g.forum.ExpirationSecs(chain.FrameworkAddress, id)
	if err != nil {
		return err
	}
	if err := g.assertLockup(pool, expiration); err != nil {
		return err
	}
	voted, err := g.HasVoted(pool, id)
	if err != nil {
		return err
	}
	if voted {
		return throw.InvalidArgument(EALREADY_VOTED, "pool %s already voted on proposal %d", pool.ShortString(), id)
	}
	yes := true
	if err := votingRecord.Put(g.state, chain.FrameworkAddress, recordKey(pool, id), &yes); err != nil {
		return err
	}
	if err := g.forum.Vote(chain.FrameworkAddress, id, balances.Active, shouldPass); err != nil {
		return err
	}

	evs, err := g.events()
	if err != nil {
		return err
	}
	events.Emit(g.state, &evs.Vote, "VoteEvent", &VoteEvent{
		ProposalID: id,
		Voter:      voter,
		StakePool:  pool,
		NumVotes:   balances.Active,
		ShouldPass: shouldPass,
	})
	if err := eventHandles.Put(g.state, chain.FrameworkAddress, evs); err != nil {
		return err
	}
	side := "no"
	if shouldPass {
		side = "yes"
	}
	metricVotes().AddWithLabel(1, map[string]string{"side": side})
	logger.Debug("governance vote", "id", id, "pool", pool.ShortString(), "votes", balances.Active, "pass", shouldPass)
	return nil
}

// Resolve releases a succeeded proposal to the executor whose script hash
// matches the one recorded at creation.
func (g *Governance) Resolve(id uint64, ctx ExecutionContext) (GovernanceProposal, error) {
	p, err := g.forum.Resolve(chain.FrameworkAddress, id, ctx.ScriptHash())
	if err != nil {
		return GovernanceProposal{}, err
	}
	logger.Info("governance proposal resolved", "id", id)
	return p, nil
}

// Proposal returns a governance proposal by id.
func (g *Governance) Proposal(id uint64) (*voting.Proposal[GovernanceProposal], error) {
	return g.forum.Proposal(chain.FrameworkAddress, id)
}

// ProposalState returns the state of a proposal.
func (g *Governance) ProposalState(id uint64) (voting.State, error) {
	return g.forum.State(chain.FrameworkAddress, id)
}

// NextProposalID returns the id the next proposal will get.
func (g *Governance) NextProposalID() (uint64, error) {
	return g.forum.NextProposalID(chain.FrameworkAddress)
}
