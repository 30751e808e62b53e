// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coin

import (
	"github.com/holiman/uint256"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/state"
)

var logger = log.WithContext("pkg", "coin")

// maxSupply is the largest u128.
var maxSupply = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Info describes the native coin, published at the core resource account.
type Info struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TrackSupply bool
	Supply      *uint256.Int
}

// Store is the balance of one account.
type Store struct {
	Coin           Coin
	DepositEvents  events.Handle
	WithdrawEvents events.Handle
}

// DepositEvent is emitted when coins are credited to an account.
type DepositEvent struct {
	Amount uint64 `json:"amount"`
}

// WithdrawEvent is emitted when coins are debited from an account.
type WithdrawEvent struct {
	Amount uint64 `json:"amount"`
}

type mintCapStore struct {
	Holder chain.Address
}

var (
	infos         = state.NewResource[Info]("coin::CoinInfo")
	stores        = state.NewResource[Store]("coin::CoinStore")
	mintCapStores = state.NewResource[mintCapStore]("coin::MintCapStore")
)

// Ledger is the account balance book of the native coin.
type Ledger struct {
	state *state.State
}

// New create a ledger over the given state.
func New(st *state.State) *Ledger {
	return &Ledger{state: st}
}

// Initialize publishes the coin info and returns the only mint and burn capabilities.
func (l *Ledger) Initialize(account chain.Address, name, symbol string, decimals uint8, trackSupply bool) (*MintCapability, *BurnCapability, error) {
	if account != chain.CoreResourceAddress {
		return nil, nil, throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	exists, err := infos.Exists(l.state, account)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, throw.AlreadyExists(ECOIN_INFO_ALREADY_PUBLISHED, "coin already initialized")
	}
	info := &Info{
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TrackSupply: trackSupply,
		Supply:      new(uint256.Int),
	}
	if err := infos.Put(l.state, account, info); err != nil {
		return nil, nil, err
	}
	logger.Debug("coin initialized", "symbol", symbol, "trackSupply", trackSupply)
	return &MintCapability{valid: true}, &BurnCapability{valid: true}, nil
}

func (l *Ledger) info() (*Info, error) {
	info, exist, err := infos.Get(l.state, chain.CoreResourceAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ECOIN_INFO_NOT_PUBLISHED, "coin not initialized")
	}
	return info, nil
}

// Supply returns the total supply, false if supply is not tracked.
func (l *Ledger) Supply() (*uint256.Int, bool, error) {
	info, err := l.info()
	if err != nil {
		return nil, false, err
	}
	if !info.TrackSupply {
		return nil, false, nil
	}
	return info.Supply, true, nil
}

// Register publishes an empty balance for addr.
func (l *Ledger) Register(addr chain.Address) error {
	exists, err := stores.Exists(l.state, addr)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(ECOIN_STORE_ALREADY_PUBLISHED, "%s already registered", addr.ShortString())
	}
	deposits, err := events.NewHandle(l.state, addr)
	if err != nil {
		return err
	}
	withdraws, err := events.NewHandle(l.state, addr)
	if err != nil {
		return err
	}
	return stores.Put(l.state, addr, &Store{DepositEvents: deposits, WithdrawEvents: withdraws})
}

// IsRegistered reports whether addr has a balance.
func (l *Ledger) IsRegistered(addr chain.Address) (bool, error) {
	return stores.Exists(l.state, addr)
}

func (l *Ledger) store(addr chain.Address) (*Store, error) {
	s, exist, err := stores.Get(l.state, addr)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ECOIN_STORE_NOT_PUBLISHED, "%s has no coin store", addr.ShortString())
	}
	return s, nil
}

// Balance returns the balance of addr.
func (l *Ledger) Balance(addr chain.Address) (uint64, error) {
	s, err := l.store(addr)
	if err != nil {
		return 0, err
	}
	return s.Coin.Value(), nil
}

// Deposit credits the whole of c to addr.
func (l *Ledger) Deposit(addr chain.Address, c *Coin) error {
	s, err := l.store(addr)
	if err != nil {
		return err
	}
	amount := c.Value()
	if err := s.Coin.Merge(c); err != nil {
		return err
	}
	events.Emit(l.state, &s.DepositEvents, "DepositEvent", &DepositEvent{Amount: amount})
	return stores.Put(l.state, addr, s)
}

// Withdraw debits amount from addr.
func (l *Ledger) Withdraw(addr chain.Address, amount uint64) (Coin, error) {
	s, err := l.store(addr)
	if err != nil {
		return Coin{}, err
	}
	out, err := s.Coin.Extract(amount)
	if err != nil {
		return Coin{}, err
	}
	events.Emit(l.state, &s.WithdrawEvents, "WithdrawEvent", &WithdrawEvent{Amount: amount})
	if err := stores.Put(l.state, addr, s); err != nil {
		return Coin{}, err
	}
	return out, nil
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(from, to chain.Address, amount uint64) error {
	c, err := l.Withdraw(from, amount)
	if err != nil {
		return err
	}
	return l.Deposit(to, &c)
}

// Mint creates amount new coins.
func (l *Ledger) Mint(amount uint64, capability *MintCapability) (Coin, error) {
	if capability == nil || !capability.valid {
		return Coin{}, throw.PermissionDenied(EINVALID_CAPABILITY, "invalid mint capability")
	}
	if amount == 0 {
		return Coin{}, nil
	}
	info, err := l.info()
	if err != nil {
		return Coin{}, err
	}
	if info.TrackSupply {
		supply := new(uint256.Int).Add(info.Supply, uint256.NewInt(amount))
		if supply.Gt(maxSupply) {
			return Coin{}, throw.OutOfRange(ETOTAL_SUPPLY_OVERFLOW, "total supply overflows")
		}
		info.Supply = supply
		if err := infos.Put(l.state, chain.CoreResourceAddress, info); err != nil {
			return Coin{}, err
		}
	}
	return Coin{value: amount}, nil
}

// Burn destroys c.
func (l *Ledger) Burn(c *Coin, capability *BurnCapability) error {
	if capability == nil || !capability.valid {
		return throw.PermissionDenied(EINVALID_CAPABILITY, "invalid burn capability")
	}
	burned := c.ExtractAll()
	amount := burned.Value()
	if amount == 0 {
		return nil
	}
	info, err := l.info()
	if err != nil {
		return err
	}
	if info.TrackSupply {
		info.Supply = new(uint256.Int).Sub(info.Supply, uint256.NewInt(amount))
		return infos.Put(l.state, chain.CoreResourceAddress, info)
	}
	return nil
}

// StoreMintCapability places the mint capability in the custody of holder.
// The capability passed in is consumed.
func (l *Ledger) StoreMintCapability(holder chain.Address, capability *MintCapability) error {
	if capability == nil || !capability.valid {
		return throw.PermissionDenied(EINVALID_CAPABILITY, "invalid mint capability")
	}
	if err := mintCapStores.Put(l.state, holder, &mintCapStore{Holder: holder}); err != nil {
		return err
	}
	capability.valid = false
	return nil
}

// BorrowMintCapability returns the mint capability held by holder.
func (l *Ledger) BorrowMintCapability(holder chain.Address) (*MintCapability, error) {
	exists, err := mintCapStores.Exists(l.state, holder)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, throw.NotFound(EMINT_CAPABILITY_NOT_FOUND, "no mint capability at %s", holder.ShortString())
	}
	return &MintCapability{valid: true}, nil
}
