package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobboard/backend/internal/models"
)

func TestFileStoreSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileAdminStore(dir)
	if err != nil {
		t.Fatalf("NewFileAdminStore: %v", err)
	}

	user := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, user.ID, "e@x.com")

	reopened, err := NewFileAdminStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	gotUser, err := reopened.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUser after reload: %v", err)
	}
	if gotUser.Email != user.Email || gotUser.Role != user.Role {
		t.Errorf("user did not round-trip: %+v", gotUser)
	}
	if gotUser.PasswordHash != user.PasswordHash {
		t.Error("password hash must survive a reload")
	}
	if _, err := reopened.GetJob(context.Background(), job.ID); err != nil {
		t.Errorf("GetJob after reload: %v", err)
	}
}

func TestFileStoreTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, models.RoleJobseeker)

	boom := errors.New("boom")
	err := store.WithTx(context.Background(), func(ctx context.Context) error {
		if err := store.DeleteUser(ctx, user.ID); err != nil {
			return err
		}
		// The delete above must be visible inside the transaction.
		if _, err := store.GetUser(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("delete not visible inside tx: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want boom", err)
	}

	if _, err := store.GetUser(context.Background(), user.ID); err != nil {
		t.Errorf("user should be restored after rollback: %v", err)
	}
}

func TestFileStoreTxCommitsAtomically(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileAdminStore(dir)
	if err != nil {
		t.Fatalf("NewFileAdminStore: %v", err)
	}
	employer := seedUser(t, store, models.RoleEmployer)
	job1 := seedJob(t, store, employer.ID, "")
	job2 := seedJob(t, store, employer.ID, "")

	err = store.WithTx(context.Background(), func(ctx context.Context) error {
		if err := store.DeleteUser(ctx, employer.ID); err != nil {
			return err
		}
		return store.DeleteJobsByEmployer(ctx, employer.ID)
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	reopened, err := NewFileAdminStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.GetUser(context.Background(), employer.ID); !errors.Is(err, ErrUserNotFound) {
		t.Error("user delete not committed")
	}
	for _, id := range []string{job1.ID, job2.ID} {
		if _, err := reopened.GetJob(context.Background(), id); !errors.Is(err, ErrJobNotFound) {
			t.Errorf("job %s delete not committed", id)
		}
	}
}

func TestFileStorePendingReportsTieBreakIsStable(t *testing.T) {
	store := newTestStore(t)
	reporter := seedUser(t, store, models.RoleJobseeker)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seedReport(t, store, reporter.ID, "a", models.ReportedItemUser, at)
	seedReport(t, store, reporter.ID, "b", models.ReportedItemUser, at)

	first, err := store.ListPendingReports(context.Background(), Page{})
	if err != nil {
		t.Fatalf("ListPendingReports: %v", err)
	}
	second, err := store.ListPendingReports(context.Background(), Page{})
	if err != nil {
		t.Fatalf("ListPendingReports: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("want 2 reports in both scans")
	}
	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Error("equal-timestamp ordering must be deterministic")
	}
}
