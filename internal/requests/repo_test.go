//go:build db
// +build db

package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CAMARIZE_DB_DSN")
	if dsn == "" {
		t.Skip("CAMARIZE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryRequestLifecycle(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	requester := &models.User{
		ID:           uuid.New(),
		Name:         "Requester",
		Email:        fmt.Sprintf("cmz_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Role:         enums.UserRoleMembro,
	}
	if err := tx.Create(requester).Error; err != nil {
		t.Fatalf("create requester: %v", err)
	}
	approver := &models.User{
		ID:           uuid.New(),
		Name:         "Approver",
		Email:        fmt.Sprintf("cmz_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Role:         enums.UserRoleMaster,
	}
	if err := tx.Create(approver).Error; err != nil {
		t.Fatalf("create approver: %v", err)
	}

	request := &models.Request{
		ID:              uuid.New(),
		RequesterUserID: &requester.ID,
		RequesterRole:   enums.UserRoleMembro,
		TargetRole:      enums.UserRoleMaster,
		Type:            enums.RequestTypeHeavy,
		Action:          enums.RequestActionAssociateEmployee,
		Payload:         json.RawMessage(`{"emailFuncionario":"f@example.com"}`),
		Status:          enums.RequestStatusPending,
	}
	if err := repo.Create(ctx, request); err != nil {
		t.Fatalf("create request: %v", err)
	}

	loaded, err := repo.FindByID(ctx, request.ID)
	if err != nil {
		t.Fatalf("find request: %v", err)
	}
	if loaded.Status != enums.RequestStatusPending {
		t.Fatalf("expected pending, got %s", loaded.Status)
	}

	pending := enums.RequestStatusPending
	rows, _, err := repo.List(ctx, ListFilter{Status: &pending, RequesterUserID: &requester.ID})
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	found := false
	for _, row := range rows {
		if row.ID == request.ID {
			found = true
			if row.RequesterName == nil || *row.RequesterName != requester.Name {
				t.Fatalf("requester display name not joined: %+v", row)
			}
		}
	}
	if !found {
		t.Fatalf("created request missing from list")
	}

	flipped, err := repo.Resolve(ctx, request.ID, enums.RequestStatusApproved, approver.ID, request.RequesterUserID, request.Payload)
	if err != nil {
		t.Fatalf("resolve request: %v", err)
	}
	if !flipped {
		t.Fatalf("pending request did not resolve")
	}
	resolved, err := repo.FindByID(ctx, request.ID)
	if err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if resolved.Status != enums.RequestStatusApproved {
		t.Fatalf("expected approved, got %s", resolved.Status)
	}
	if resolved.ApproverUserID == nil || *resolved.ApproverUserID != approver.ID {
		t.Fatalf("approver not stamped")
	}

	// A second resolution must not overwrite the terminal status.
	flipped, err = repo.Resolve(ctx, request.ID, enums.RequestStatusRejected, approver.ID, request.RequesterUserID, request.Payload)
	if err != nil {
		t.Fatalf("re-resolve request: %v", err)
	}
	if flipped {
		t.Fatalf("resolved request flipped again")
	}
	reloaded, err := repo.FindByID(ctx, request.ID)
	if err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if reloaded.Status != enums.RequestStatusApproved {
		t.Fatalf("terminal status overwritten: %s", reloaded.Status)
	}

	deleted, err := repo.DeleteByRequester(ctx, request.ID, uuid.New())
	if err != nil {
		t.Fatalf("delete by foreign requester: %v", err)
	}
	if deleted {
		t.Fatalf("foreign requester must not delete the request")
	}
	deleted, err = repo.DeleteByRequester(ctx, request.ID, requester.ID)
	if err != nil {
		t.Fatalf("delete by requester: %v", err)
	}
	if !deleted {
		t.Fatalf("requester should delete own request")
	}
}
