// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package vm

import "sync"

// Address is a 20-byte account identifier. The core interpreter treats it
// as an opaque key; address semantics (derivation, checksum formatting)
// belong to the host.
type Address [20]byte

// StorageSlot is a 32-byte storage key.
type StorageSlot [32]byte

type slotKey struct {
	addr Address
	slot StorageSlot
}

// AccessCost is the gas cost of an access-list lookup: cold on first
// touch, warm thereafter (EIP-2929).
type AccessCost uint64

const (
	ColdAccountAccessCost AccessCost = gasColdAccess
	WarmAccessCost        AccessCost = gasWarmAccess
	ColdSloadCost         AccessCost = gasColdAccess
)

// AccessList tracks warm addresses and warm (address, slot) pairs for one
// transaction-scoped execution context. It is owned by the surrounding
// transaction context, not by any single frame (spec.md §3), so it
// guards its own state with a mutex to allow safe sharing across nested
// frames invoked from the same goroutine tree.
type AccessList struct {
	mu        sync.Mutex
	addresses map[Address]struct{}
	slots     map[slotKey]struct{}
}

// NewAccessList returns an empty access list.
func NewAccessList() *AccessList {
	return &AccessList{
		addresses: make(map[Address]struct{}),
		slots:     make(map[slotKey]struct{}),
	}
}

// TouchAddress marks addr warm and returns the cost of this access: cold
// if this is the first touch, warm otherwise.
func (a *AccessList) TouchAddress(addr Address) AccessCost {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, warm := a.addresses[addr]; warm {
		return WarmAccessCost
	}
	a.addresses[addr] = struct{}{}
	return ColdAccountAccessCost
}

// IsAddressWarm reports whether addr has already been touched, without
// marking it.
func (a *AccessList) IsAddressWarm(addr Address) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, warm := a.addresses[addr]
	return warm
}

// TouchSlot marks (addr, slot) warm and returns the cost of this access.
func (a *AccessList) TouchSlot(addr Address, slot StorageSlot) AccessCost {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := slotKey{addr, slot}
	if _, warm := a.slots[key]; warm {
		return WarmAccessCost
	}
	a.slots[key] = struct{}{}
	return ColdSloadCost
}

// IsSlotWarm reports whether (addr, slot) has already been touched.
func (a *AccessList) IsSlotWarm(addr Address, slot StorageSlot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, warm := a.slots[slotKey{addr, slot}]
	return warm
}

// Clear resets every entry back to cold, for reuse across transactions.
func (a *AccessList) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.addresses = make(map[Address]struct{})
	a.slots = make(map[slotKey]struct{})
}

// AddressCount returns the number of warm addresses, for observability.
func (a *AccessList) AddressCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.addresses)
}

// SlotCount returns the number of warm storage slots, for observability.
func (a *AccessList) SlotCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slots)
}
