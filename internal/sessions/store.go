package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/redis"
)

// State is the per-actor conversation context a bot parks between messages:
// which ticket it is waiting on and what it expects the actor to do next.
// It replaces the ad hoc global flag dictionaries the bots used to keep.
type State struct {
	PendingAction enums.TicketAction `json:"pending_action,omitempty"`
	TicketID      uuid.UUID          `json:"ticket_id,omitempty"`
	Step          string             `json:"step,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// kv is the slice of the redis client the store needs.
type kv interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(role, actorID string) string
}

// Store persists actor conversation state in Redis with a TTL so abandoned
// conversations expire on their own.
type Store struct {
	kv  kv
	ttl time.Duration
}

// NewStore builds a session store over the shared redis client.
func NewStore(client *redis.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{kv: client, ttl: ttl}, nil
}

func newStoreWithKV(store kv, ttl time.Duration) *Store {
	return &Store{kv: store, ttl: ttl}
}

// Put stores the actor's state, stamping UpdatedAt.
func (s *Store) Put(ctx context.Context, role enums.ActorRole, actorID string, state State) error {
	if err := validateKey(role, actorID); err != nil {
		return err
	}
	state.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session state")
	}
	if err := s.kv.Set(ctx, s.kv.SessionKey(role.String(), actorID), raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session state")
	}
	return nil
}

// Get returns the actor's parked state, or NotFound when none exists.
func (s *Store) Get(ctx context.Context, role enums.ActorRole, actorID string) (*State, error) {
	if err := validateKey(role, actorID); err != nil {
		return nil, err
	}
	raw, err := s.kv.Get(ctx, s.kv.SessionKey(role.String(), actorID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no session state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session state")
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session state")
	}
	return &state, nil
}

// Delete clears the actor's state. Deleting a missing session is a no-op.
func (s *Store) Delete(ctx context.Context, role enums.ActorRole, actorID string) error {
	if err := validateKey(role, actorID); err != nil {
		return err
	}
	if err := s.kv.Del(ctx, s.kv.SessionKey(role.String(), actorID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session state")
	}
	return nil
}

func validateKey(role enums.ActorRole, actorID string) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}
	if strings.TrimSpace(actorID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	return nil
}
