// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Category classifies an abort. The numeric values are part of the abort code.
type Category uint8

const (
	InvalidArgument  Category = 0x1
	OutOfRange       Category = 0x2
	InvalidState     Category = 0x3
	PermissionDenied Category = 0x5
	NotFound         Category = 0x6
	AlreadyExists    Category = 0x8
)

func (c Category) String() string {
	switch c {
	case InvalidArgument:
		return "invalid_argument"
	case OutOfRange:
		return "out_of_range"
	case InvalidState:
		return "invalid_state"
	case PermissionDenied:
		return "permission_denied"
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// ErrRevert is a synchronous abort raised by an entry point. It is terminal for
// the calling transaction and is surfaced to the caller unchanged.
type ErrRevert struct {
	Module   string
	Category Category
	Reason   uint64
	message  string
}

// New creates an abort of the given category.
func New(module string, category Category, reason uint64, message string) *ErrRevert {
	return &ErrRevert{
		Module:   module,
		Category: category,
		Reason:   reason,
		message:  message,
	}
}

// Code returns the canonical abort code, category in the high bits.
func (e *ErrRevert) Code() uint64 {
	return uint64(e.Category)<<16 | e.Reason
}

func (e *ErrRevert) Error() string {
	return fmt.Sprintf("%s: %s(%d): %s", e.Module, e.Category, e.Reason, e.message)
}

// Message returns the human readable part of the abort.
func (e *ErrRevert) Message() string {
	return e.message
}

// IsRevertErr reports whether err is, or wraps, an abort.
func IsRevertErr(err any) bool {
	_, ok := asRevert(err)
	return ok
}

// Is reports whether err is an abort with the given category and reason.
func Is(err error, category Category, reason uint64) bool {
	e, ok := asRevert(err)
	return ok && e.Category == category && e.Reason == reason
}

// CategoryOf returns the category of an abort, false if err is not one.
func CategoryOf(err error) (Category, bool) {
	e, ok := asRevert(err)
	if !ok {
		return 0, false
	}
	return e.Category, true
}

func asRevert(err any) (*ErrRevert, bool) {
	if err == nil {
		return nil, false
	}
	e, ok := err.(error)
	if !ok {
		return nil, false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve, true
	}
	return nil, false
}

// Thrower binds a module name so call sites stay short.
type Thrower string

func (m Thrower) InvalidArgument(reason uint64, format string, args ...any) *ErrRevert {
	return New(string(m), InvalidArgument, reason, fmt.Sprintf(format, args...))
}

func (m Thrower) OutOfRange(reason uint64, format string, args ...any) *ErrRevert {
	return New(string(m), OutOfRange, reason, fmt.Sprintf(format, args...))
}

func (m Thrower) InvalidState(reason uint64, format string, args ...any) *ErrRevert {
	return New(string(m), InvalidState, reason, fmt.Sprintf(format, args...))
}

func (m Thrower) PermissionDenied(reason uint64, format string, args ...any) *ErrRevert {
	return New(string(m), PermissionDenied, reason, fmt.Sprintf(format, args...))
}

func (m Thrower) NotFound(reason uint64, format string, args ...any) *ErrRevert {
	return New(string(m), NotFound, reason, fmt.Sprintf(format, args...))
}

func (m Thrower) AlreadyExists(reason uint64, format string, args ...any) *ErrRevert {
	return New(string(m), AlreadyExists, reason, fmt.Sprintf(format, args...))
}
