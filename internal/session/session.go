// Package session keeps the candidate groups and interview panels a user
// builds during one working session. Nothing here is persisted.
package session

import (
	"sync"
	"time"
)

// group keeps members in the order they were first added
type group struct {
	members []string
	index   map[string]struct{}
}

// Session holds named groups and panels
type Session struct {
	ID       string
	LastSeen time.Time

	mu         sync.RWMutex
	groups     map[string]*group
	groupOrder []string
	panels     map[string][]string
	panelOrder []string
}

// New creates an empty session
func New(id string) *Session {
	return &Session{
		ID:       id,
		LastSeen: time.Now(),
		groups:   make(map[string]*group),
		panels:   make(map[string][]string),
	}
}

// CreateGroup adds an empty group. It does nothing and returns false when
// name is empty or already taken.
func (s *Session) CreateGroup(name string) bool {
	if name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[name]; exists {
		return false
	}
	s.groups[name] = &group{index: make(map[string]struct{})}
	s.groupOrder = append(s.groupOrder, name)
	return true
}

// AddToGroup unions ids into the group and returns how many were new.
// Unknown groups are left alone.
func (s *Session) AddToGroup(name string, ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[name]
	if !ok {
		return 0
	}
	added := 0
	for _, id := range ids {
		if _, present := g.index[id]; present {
			continue
		}
		g.index[id] = struct{}{}
		g.members = append(g.members, id)
		added++
	}
	return added
}

// RemoveFromGroup drops ids from the group and returns how many were members.
func (s *Session) RemoveFromGroup(name string, ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[name]
	if !ok {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, present := g.index[id]; present {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := g.members[:0]
	for _, m := range g.members {
		if _, gone := drop[m]; gone {
			delete(g.index, m)
			continue
		}
		kept = append(kept, m)
	}
	g.members = kept
	return len(drop)
}

// CreatePanel stores a fixed member list. It does nothing and returns false
// when name is empty, members is empty or name is taken.
func (s *Session) CreatePanel(name string, members []string) bool {
	if name == "" || len(members) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.panels[name]; exists {
		return false
	}
	s.panels[name] = append([]string(nil), members...)
	s.panelOrder = append(s.panelOrder, name)
	return true
}

// Group returns a copy of the group's members in insertion order
func (s *Session) Group(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, g.members...), true
}

// Panel returns a copy of the panel's members
func (s *Session) Panel(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.panels[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, p...), true
}

// GroupNames lists groups in creation order
func (s *Session) GroupNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.groupOrder...)
}

// PanelNames lists panels in creation order
func (s *Session) PanelNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.panelOrder...)
}
