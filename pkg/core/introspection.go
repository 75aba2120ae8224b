package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Notes            int    `json:"notes"`
	HighlightGroups  int    `json:"highlight_groups"`
	Highlights       int    `json:"highlights"`
	CurrentNote      string `json:"current_note,omitempty"`
	StoreType        string `json:"store_type"`
	PendingWrites    int    `json:"pending_writes"`
	SyncWrites       bool   `json:"sync_writes"`
	AutoSave         bool   `json:"auto_save"`
	AutoSaveInterval string `json:"auto_save_interval,omitempty"`
	Closed           bool   `json:"closed"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	st := ServiceState{
		Notes:           len(s.notes),
		HighlightGroups: len(s.highlights),
		CurrentNote:     s.current,
		SyncWrites:      s.syncWrites,
		AutoSave:        s.autoSaveStop != nil,
		Closed:          s.closed,
	}
	for _, g := range s.highlights {
		st.Highlights += len(g.Highlights)
	}
	if st.AutoSave {
		st.AutoSaveInterval = s.autoSaveInterval.String()
	}
	s.mu.RUnlock()

	st.StoreType = "unknown"
	if s.kv != nil {
		st.StoreType = "kv"
		if comp, ok := s.kv.(introspection.Component); ok {
			st.StoreType = comp.ComponentType()
		}
	}

	s.pendingMu.Lock()
	st.PendingWrites = s.pending
	s.pendingMu.Unlock()

	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
