// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/chain"
)

// NotFoundError is returned when borrowing a resource that is not published.
type NotFoundError struct {
	Addr chain.Address
	Tag  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %s not found at %s", e.Tag, e.Addr.ShortString())
}

// IsNotFound reports whether err is caused by a missing resource.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Resource is a typed value published at most once per account.
type Resource[T any] struct {
	tag  string
	slot chain.Bytes32
}

// NewResource declares a resource type. The tag must be unique in the program.
func NewResource[T any](tag string) Resource[T] {
	return Resource[T]{tag: tag, slot: chain.Blake2b([]byte(tag))}
}

func (r Resource[T]) Tag() string { return r.tag }

func (r Resource[T]) key(addr chain.Address) key {
	return key{addr: addr, slot: r.slot}
}

// Exists reports whether the resource is published at addr.
func (r Resource[T]) Exists(s *State, addr chain.Address) (bool, error) {
	return s.has(r.key(addr))
}

// Get returns the resource at addr, or nil and false when absent.
func (r Resource[T]) Get(s *State, addr chain.Address) (*T, bool, error) {
	var v T
	exist, err := s.decode(r.key(addr), &v)
	if err != nil || !exist {
		return nil, false, err
	}
	return &v, true, nil
}

// Borrow returns the resource at addr, or a NotFoundError.
func (r Resource[T]) Borrow(s *State, addr chain.Address) (*T, error) {
	v, exist, err := r.Get(s, addr)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, &NotFoundError{Addr: addr, Tag: r.tag}
	}
	return v, nil
}

// Put publishes or overwrites the resource at addr.
func (r Resource[T]) Put(s *State, addr chain.Address, v *T) error {
	return s.encode(r.key(addr), v)
}

// Remove unpublishes the resource at addr and returns it.
func (r Resource[T]) Remove(s *State, addr chain.Address) (*T, error) {
	v, err := r.Borrow(s, addr)
	if err != nil {
		return nil, err
	}
	s.remove(r.key(addr))
	return v, nil
}

// Table is a typed map stored under an account, keyed by arbitrary bytes.
type Table[T any] struct {
	tag string
}

// NewTable declares a table type. The tag must be unique in the program.
func NewTable[T any](tag string) Table[T] {
	return Table[T]{tag: tag}
}

func (t Table[T]) Tag() string { return t.tag }

func (t Table[T]) key(addr chain.Address, sub []byte) key {
	return key{addr: addr, slot: chain.Blake2b([]byte(t.tag), sub)}
}

// Contains reports whether an entry exists under sub.
func (t Table[T]) Contains(s *State, addr chain.Address, sub []byte) (bool, error) {
	return s.has(t.key(addr, sub))
}

// Get returns the entry under sub, or nil and false when absent.
func (t Table[T]) Get(s *State, addr chain.Address, sub []byte) (*T, bool, error) {
	var v T
	exist, err := s.decode(t.key(addr, sub), &v)
	if err != nil || !exist {
		return nil, false, err
	}
	return &v, true, nil
}

// Borrow returns the entry under sub, or a NotFoundError.
func (t Table[T]) Borrow(s *State, addr chain.Address, sub []byte) (*T, error) {
	v, exist, err := t.Get(s, addr, sub)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, &NotFoundError{Addr: addr, Tag: fmt.Sprintf("%s[%x]", t.tag, sub)}
	}
	return v, nil
}

// Put adds or overwrites the entry under sub.
func (t Table[T]) Put(s *State, addr chain.Address, sub []byte, v *T) error {
	return s.encode(t.key(addr, sub), v)
}

// Remove deletes the entry under sub.
func (t Table[T]) Remove(s *State, addr chain.Address, sub []byte) {
	s.remove(t.key(addr, sub))
}
