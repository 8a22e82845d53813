package cloud

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Storage keys inside the gdata app directory.
const (
	savesObject   = "saves"
	savesProperty = "local"
)

// LocalSaveStore keeps save slots on this machine, newest first.
//
// A nil gdata manager keeps the slots in memory only.
type LocalSaveStore struct {
	mu    sync.Mutex
	gdata *gdata.Manager
	saves []Save
	now   func() time.Time
}

// NewLocalSaveStore creates a store and loads any slots already on disk.
func NewLocalSaveStore(m *gdata.Manager) *LocalSaveStore {
	s := &LocalSaveStore{gdata: m, now: time.Now}
	if err := s.load(); err != nil {
		log.Printf("[LocalSaveStore] Warning: %v (starting empty)", err)
	}
	return s
}

func (s *LocalSaveStore) load() error {
	if s.gdata == nil || !s.gdata.ObjectPropExists(savesObject, savesProperty) {
		return nil
	}
	data, err := s.gdata.LoadObjectProp(savesObject, savesProperty)
	if err != nil {
		return fmt.Errorf("failed to load local saves: %w", err)
	}
	var saves []Save
	if err := yaml.Unmarshal(data, &saves); err != nil {
		return fmt.Errorf("failed to unmarshal local saves: %w", err)
	}
	s.saves = saves
	return nil
}

func (s *LocalSaveStore) persist() error {
	if s.gdata == nil {
		return nil
	}
	data, err := yaml.Marshal(s.saves)
	if err != nil {
		return fmt.Errorf("failed to marshal local saves: %w", err)
	}
	if err := s.gdata.SaveObjectProp(savesObject, savesProperty, data); err != nil {
		return fmt.Errorf("failed to save local saves: %w", err)
	}
	return nil
}

// List returns a copy of the slots, newest first.
func (s *LocalSaveStore) List() []Save {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Save(nil), s.saves...)
}

// Add stores a new slot at the front of the list.
func (s *LocalSaveStore) Add(name string, data SaveState) (Save, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := strconv.FormatInt(now.UnixNano(), 10)
	for s.indexOf(id) >= 0 {
		now = now.Add(time.Nanosecond)
		id = strconv.FormatInt(now.UnixNano(), 10)
	}
	if name == "" {
		name = DefaultSaveName(now)
	}
	save := Save{ID: id, Name: name, Data: data, CreatedAt: now, Local: true}
	s.saves = append([]Save{save}, s.saves...)
	return save, s.persist()
}

// Get returns one slot.
func (s *LocalSaveStore) Get(id string) (Save, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Save{}, fmt.Errorf("local save %s: %w", id, ErrNotFound)
	}
	return s.saves[i], nil
}

// Delete removes one slot.
func (s *LocalSaveStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("local save %s: %w", id, ErrNotFound)
	}
	s.saves = append(s.saves[:i], s.saves[i+1:]...)
	return s.persist()
}

func (s *LocalSaveStore) indexOf(id string) int {
	for i, sv := range s.saves {
		if sv.ID == id {
			return i
		}
	}
	return -1
}
