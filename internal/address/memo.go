// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package address

import (
	"sync"
)

// Key identifies an address name for which a type choice can be remembered
type Key struct {
	StreetOrPlace string
	Postcode      string
	Municipality  string
}

// Memo remembers type choices for the lifetime of the process. Entries are never evicted.
type Memo struct {
	mu      sync.RWMutex
	choices map[Key]Type
}

func NewMemo() *Memo {
	return &Memo{choices: make(map[Key]Type)}
}

// Get returns the remembered type for key
func (m *Memo) Get(key Key) (Type, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	choice, ok := m.choices[key]
	return choice, ok
}

// Put remembers choice for key, replacing any earlier choice
func (m *Memo) Put(key Key, choice Type) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.choices[key] = choice
}

// Len returns the number of remembered choices
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.choices)
}
