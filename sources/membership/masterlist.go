package membership

import (
	"fmt"

	"chatledger/sources/localcache"
)

// MasterList is the flat user -> months file shared by every run.
type MasterList struct {
	store *localcache.Store[int]
}

func OpenMasterList(path string) (*MasterList, error) {
	store, err := localcache.Open[int](path)
	if err != nil {
		return nil, fmt.Errorf("open membership master list: %w", err)
	}
	return &MasterList{store: store}, nil
}

func (m *MasterList) Path() string {
	return m.store.Path()
}

func (m *MasterList) Load() *Tracker {
	return NewTracker(m.store.Snapshot())
}

// Save rewrites the whole file from the tracker state.
func (m *MasterList) Save(t *Tracker) error {
	return m.store.Replace(t.members)
}
