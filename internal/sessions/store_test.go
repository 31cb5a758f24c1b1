package sessions

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeKV) SessionKey(role, actorID string) string {
	return strings.Join([]string{"td", "session", role, actorID}, ":")
}

func TestStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithKV(newFakeKV(), time.Hour)

	ticketID := uuid.New()
	err := store.Put(ctx, enums.RoleDeliveryAgent, "da-1", State{
		PendingAction: enums.ActionDAMoreInfo,
		TicketID:      ticketID,
		Step:          "awaiting_reply",
	})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	state, err := store.Get(ctx, enums.RoleDeliveryAgent, "da-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if state.PendingAction != enums.ActionDAMoreInfo {
		t.Fatalf("unexpected pending action %s", state.PendingAction)
	}
	if state.TicketID != ticketID {
		t.Fatalf("unexpected ticket id %s", state.TicketID)
	}
	if state.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt must be stamped on put")
	}

	if err := store.Delete(ctx, enums.RoleDeliveryAgent, "da-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err = store.Get(ctx, enums.RoleDeliveryAgent, "da-1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestStoreRolesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithKV(newFakeKV(), time.Hour)

	if err := store.Put(ctx, enums.RoleSupervisor, "u-1", State{Step: "reviewing"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	_, err := store.Get(ctx, enums.RoleClient, "u-1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected role isolation, got %v", err)
	}
}

func TestStoreValidation(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithKV(newFakeKV(), time.Hour)

	if err := store.Put(ctx, "auditor", "u-1", State{}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	if _, err := store.Get(ctx, enums.RoleClient, "  "); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank actor, got %v", err)
	}
	if err := store.Delete(ctx, enums.RoleClient, ""); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty actor, got %v", err)
	}

	// deleting a missing session is fine
	if err := store.Delete(ctx, enums.RoleClient, "u-404"); err != nil {
		t.Fatalf("delete of missing session should be a no-op, got %v", err)
	}
}
