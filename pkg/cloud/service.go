package cloud

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
)

// SaveService routes save operations to the remote service while a valid
// credential is present and to the local store otherwise. A remote call that
// fails for any reason is logged and retried locally.
type SaveService struct {
	client *Client
	local  *LocalSaveStore

	mu   sync.Mutex
	cred Credential
	now  func() time.Time
}

// NewSaveService creates a service in guest mode. A nil client keeps every
// operation local.
func NewSaveService(client *Client, local *LocalSaveStore) *SaveService {
	if local == nil {
		local = NewLocalSaveStore(nil)
	}
	return &SaveService{client: client, local: local, now: time.Now}
}

// SignIn logs in and keeps the returned credential.
func (s *SaveService) SignIn(ctx context.Context, username, password string) error {
	if s.client == nil {
		return ErrNoCredential
	}
	cred, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.SetCredential(cred)
	return nil
}

// SetCredential switches to the remote service for this credential. An
// empty credential returns to guest mode.
func (s *SaveService) SetCredential(cred Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	if cred.Token != "" {
		log.Printf("[SaveService] Signed in as %s", cred.Subject())
	}
}

// SignOut drops the credential.
func (s *SaveService) SignOut() { s.SetCredential(Credential{}) }

// Guest reports whether operations go to the local store.
func (s *SaveService) Guest() bool {
	_, ok := s.remote()
	return !ok
}

func (s *SaveService) remote() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil || !s.cred.Present(s.now()) {
		return Credential{}, false
	}
	return s.cred, true
}

// List returns the player's slots.
func (s *SaveService) List(ctx context.Context) []Save {
	if cred, ok := s.remote(); ok {
		saves, err := s.client.ListSaves(ctx, cred)
		if err == nil {
			return saves
		}
		s.fallback("list", err)
	}
	return s.local.List()
}

// Create stores a new slot. An empty name gets a timestamped default.
func (s *SaveService) Create(ctx context.Context, name string, data SaveState) (Save, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultSaveName(s.now())
	}
	if cred, ok := s.remote(); ok {
		save, err := s.client.CreateSave(ctx, cred, name, data)
		if err == nil {
			return save, nil
		}
		s.fallback("create", err)
	}
	return s.local.Add(name, data)
}

// Load fetches one slot. Local slots are always read locally.
func (s *SaveService) Load(ctx context.Context, id string) (Save, error) {
	if cred, ok := s.remote(); ok {
		save, err := s.client.GetSave(ctx, cred, id)
		if err == nil {
			return save, nil
		}
		s.fallback("load", err)
	}
	return s.local.Get(id)
}

// Delete removes one slot.
func (s *SaveService) Delete(ctx context.Context, id string) error {
	if cred, ok := s.remote(); ok {
		err := s.client.DeleteSave(ctx, cred, id)
		if err == nil {
			return nil
		}
		s.fallback("delete", err)
	}
	return s.local.Delete(id)
}

func (s *SaveService) fallback(op string, err error) {
	if errors.Is(err, ErrUnauthorized) {
		log.Printf("[SaveService] Credential rejected on %s, using local saves: %v", op, err)
		return
	}
	log.Printf("[SaveService] Remote %s failed, using local saves: %v", op, err)
}
