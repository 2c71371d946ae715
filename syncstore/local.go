package syncstore

import (
	"github.com/NextMind-AI/leadsync/crm"
)

// AppendLocal adds an optimistic interaction. It stays in the store across loads until it
// is replaced or discarded.
func (s *Store) AppendLocal(i crm.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]crm.Interaction, len(s.interactions), len(s.interactions)+1)
	copy(next, s.interactions)
	s.interactions = append(next, i)
	s.local[i.ID] = struct{}{}
}

// ReplaceLocal swaps the optimistic entry tempID for the confirmed row, matching by id
// rather than position. When the entry is gone the confirmed row is appended instead.
// It reports whether the entry was found.
func (s *Store) ReplaceLocal(tempID int64, confirmed crm.Interaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.local, tempID)

	found := false
	next := make([]crm.Interaction, 0, len(s.interactions)+1)
	for _, i := range s.interactions {
		if i.ID == tempID && !found {
			next = append(next, confirmed)
			found = true
			continue
		}
		next = append(next, i)
	}
	if !found {
		next = append(next, confirmed)
	}
	s.interactions = next
	return found
}

// MarkFailed sets the optimistic entry tempID to failed in place.
func (s *Store) MarkFailed(tempID int64) bool {
	return s.setLocalStatus(tempID, crm.StatusFailed)
}

// MarkSending moves a failed entry back to sending ahead of a retry.
func (s *Store) MarkSending(tempID int64) bool {
	return s.setLocalStatus(tempID, crm.StatusSending)
}

func (s *Store) setLocalStatus(tempID int64, status crm.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isLocal(tempID) {
		return false
	}

	found := false
	next := make([]crm.Interaction, len(s.interactions))
	for idx, i := range s.interactions {
		if i.ID == tempID {
			i.Status = status
			found = true
		}
		next[idx] = i
	}
	if found {
		s.interactions = next
	}
	return found
}

// DiscardLocal removes an optimistic entry that will not be retried.
func (s *Store) DiscardLocal(tempID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isLocal(tempID) {
		return false
	}
	delete(s.local, tempID)

	next := make([]crm.Interaction, 0, len(s.interactions))
	for _, i := range s.interactions {
		if i.ID != tempID {
			next = append(next, i)
		}
	}
	s.interactions = next
	return true
}

// Local returns the optimistic entry tempID.
func (s *Store) Local(tempID int64) (crm.Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isLocal(tempID) {
		return crm.Interaction{}, false
	}
	for _, i := range s.interactions {
		if i.ID == tempID {
			return i, true
		}
	}
	return crm.Interaction{}, false
}

// Lead returns the cached lead with id.
func (s *Store) Lead(id int64) (crm.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leads {
		if l.ID == id {
			return l, true
		}
	}
	return crm.Lead{}, false
}

// UpsertLead replaces the cached lead with the same id, or appends it.
func (s *Store) UpsertLead(lead crm.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]crm.Lead, 0, len(s.leads)+1)
	found := false
	for _, l := range s.leads {
		if l.ID == lead.ID {
			next = append(next, lead)
			found = true
			continue
		}
		next = append(next, l)
	}
	if !found {
		next = append(next, lead)
	}
	s.leads = next
}

// BeginSend raises the sending flag. Every call must be paired with EndSend.
func (s *Store) BeginSend() {
	s.mu.Lock()
	s.sending++
	s.mu.Unlock()
}

func (s *Store) EndSend() {
	s.mu.Lock()
	if s.sending > 0 {
		s.sending--
	}
	s.mu.Unlock()
}

// Sending reports whether any send is in flight.
func (s *Store) Sending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sending > 0
}
