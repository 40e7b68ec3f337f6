package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobboard/backend/internal/models"
)

func newTestStore(t *testing.T) *FileAdminStore {
	t.Helper()
	store, err := NewFileAdminStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileAdminStore: %v", err)
	}
	return store
}

func seedUser(t *testing.T, store *FileAdminStore, role string) models.User {
	t.Helper()
	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         "Test " + role,
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.SaveUser(context.Background(), &user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	return user
}

func seedJob(t *testing.T, store *FileAdminStore, employerID, email string) models.Job {
	t.Helper()
	job := models.Job{
		ID:            uuid.New().String(),
		Title:         "Backend Engineer",
		Description:   "Build things",
		Location:      "Remote",
		EmployerID:    employerID,
		EmployerEmail: email,
		Status:        models.JobStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := store.SaveJob(context.Background(), &job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	return job
}

func seedReport(t *testing.T, store *FileAdminStore, reporterID, item, itemType string, createdAt time.Time) models.Report {
	t.Helper()
	report := models.Report{
		ID:               uuid.New().String(),
		ReporterID:       reporterID,
		ReportedItem:     item,
		ReportedItemType: itemType,
		Reason:           "spam",
		Status:           models.ReportStatusPending,
		CreatedAt:        createdAt,
	}
	if err := store.SaveReport(context.Background(), &report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	return report
}

func seedApplication(t *testing.T, store *FileAdminStore, jobID, applicantID string) models.Application {
	t.Helper()
	app := models.Application{
		ID:          uuid.New().String(),
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      "submitted",
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.SaveApplication(context.Background(), &app); err != nil {
		t.Fatalf("SaveApplication: %v", err)
	}
	return app
}

func TestUpdateUserStatusTogglesOnlyActiveFlag(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	user := seedUser(t, store, models.RoleJobseeker)

	updated, err := svc.UpdateUserStatus(context.Background(), user.ID, false)
	if err != nil {
		t.Fatalf("UpdateUserStatus: %v", err)
	}
	if updated.IsActive {
		t.Error("expected isActive=false")
	}
	if updated.Name != user.Name || updated.Email != user.Email || updated.Role != user.Role {
		t.Errorf("fields other than isActive changed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(user.CreatedAt) {
		t.Error("createdAt changed")
	}

	stored, err := store.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if stored.IsActive {
		t.Error("change was not persisted")
	}
}

func TestUpdateUserStatusNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)

	if _, err := svc.UpdateUserStatus(context.Background(), "missing", true); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUserRejectsSelfDelete(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)

	if err := svc.DeleteUser(context.Background(), admin.ID, admin.ID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if _, err := store.GetUser(context.Background(), admin.ID); err != nil {
		t.Error("self-delete attempt must not mutate the store")
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)

	if err := svc.DeleteUser(context.Background(), "missing", admin.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteEmployerCascadesToJobs(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	employer := seedUser(t, store, models.RoleEmployer)
	other := seedUser(t, store, models.RoleEmployer)
	jobseeker := seedUser(t, store, models.RoleJobseeker)

	owned1 := seedJob(t, store, employer.ID, "")
	owned2 := seedJob(t, store, employer.ID, "")
	unrelated := seedJob(t, store, other.ID, "")
	seedApplication(t, store, unrelated.ID, jobseeker.ID)

	if err := svc.DeleteUser(context.Background(), employer.ID, admin.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := store.GetUser(context.Background(), employer.ID); !errors.Is(err, ErrUserNotFound) {
		t.Error("employer should be gone")
	}
	for _, id := range []string{owned1.ID, owned2.ID} {
		if _, err := store.GetJob(context.Background(), id); !errors.Is(err, ErrJobNotFound) {
			t.Errorf("job %s should be cascade-deleted", id)
		}
	}
	if _, err := store.GetJob(context.Background(), unrelated.ID); err != nil {
		t.Error("unrelated job must survive the cascade")
	}
	if n, _ := store.CountApplications(context.Background(), ""); n != 1 {
		t.Errorf("applications must be untouched by an employer cascade, have %d", n)
	}
}

func TestDeleteJobseekerCascadesToApplications(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	employer := seedUser(t, store, models.RoleEmployer)
	jobseeker := seedUser(t, store, models.RoleJobseeker)
	other := seedUser(t, store, models.RoleJobseeker)

	job := seedJob(t, store, employer.ID, "")
	seedApplication(t, store, job.ID, jobseeker.ID)
	seedApplication(t, store, job.ID, jobseeker.ID)
	seedApplication(t, store, job.ID, other.ID)

	if err := svc.DeleteUser(context.Background(), jobseeker.ID, admin.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if n, _ := store.CountApplications(context.Background(), jobseeker.ID); n != 0 {
		t.Errorf("jobseeker's applications should be cascade-deleted, have %d", n)
	}
	if n, _ := store.CountApplications(context.Background(), other.ID); n != 1 {
		t.Errorf("other applicant's applications must survive, have %d", n)
	}
	if _, err := store.GetJob(context.Background(), job.ID); err != nil {
		t.Error("jobs must be untouched by a jobseeker cascade")
	}
}

func TestResolveReportWithoutActionStillResolves(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	reporter := seedUser(t, store, models.RoleJobseeker)
	reported := seedUser(t, store, models.RoleEmployer)
	report := seedReport(t, store, reporter.ID, reported.ID, models.ReportedItemUser, time.Now().UTC())

	resolved, err := svc.ResolveReport(context.Background(), report.ID, admin.ID, &models.ResolveReportRequest{
		Action:          "dismiss",
		ResolutionNotes: "no action needed",
	})
	if err != nil {
		t.Fatalf("ResolveReport: %v", err)
	}
	if resolved.Status != models.ReportStatusResolved {
		t.Errorf("status = %q, want resolved", resolved.Status)
	}
	if resolved.ResolvedBy != admin.ID || resolved.ResolutionNotes != "no action needed" {
		t.Errorf("resolution metadata not recorded: %+v", resolved)
	}
	if resolved.ResolvedAt.IsZero() {
		t.Error("resolvedAt not set")
	}

	// No corrective action: the reported user stays active.
	u, _ := store.GetUser(context.Background(), reported.ID)
	if !u.IsActive {
		t.Error("reported user must stay active when no action is chosen")
	}
}

func TestResolveReportDisableUser(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	reporter := seedUser(t, store, models.RoleJobseeker)
	reported := seedUser(t, store, models.RoleEmployer)
	report := seedReport(t, store, reporter.ID, reported.ID, models.ReportedItemUser, time.Now().UTC())

	resolved, err := svc.ResolveReport(context.Background(), report.ID, admin.ID, &models.ResolveReportRequest{
		Action:          models.ReportActionDisableUser,
		ResolutionNotes: "abusive postings",
	})
	if err != nil {
		t.Fatalf("ResolveReport: %v", err)
	}
	if resolved.Status != models.ReportStatusResolved {
		t.Errorf("status = %q, want resolved", resolved.Status)
	}

	u, err := store.GetUser(context.Background(), reported.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.IsActive {
		t.Error("reported user should be disabled")
	}
}

func TestResolveReportRemoveContent(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	reporter := seedUser(t, store, models.RoleJobseeker)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "")
	report := seedReport(t, store, reporter.ID, job.ID, models.ReportedItemJob, time.Now().UTC())

	if _, err := svc.ResolveReport(context.Background(), report.ID, admin.ID, &models.ResolveReportRequest{
		Action: models.ReportActionRemoveContent,
	}); err != nil {
		t.Fatalf("ResolveReport: %v", err)
	}

	if _, err := store.GetJob(context.Background(), job.ID); !errors.Is(err, ErrJobNotFound) {
		t.Error("reported job should be deleted")
	}
}

func TestResolveReportRejectsMismatchedAction(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	reporter := seedUser(t, store, models.RoleJobseeker)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "")
	report := seedReport(t, store, reporter.ID, job.ID, models.ReportedItemJob, time.Now().UTC())

	// disableUser against a reported job must be rejected, not applied to
	// whatever record happens to share the id.
	_, err := svc.ResolveReport(context.Background(), report.ID, admin.ID, &models.ResolveReportRequest{
		Action: models.ReportActionDisableUser,
	})
	if !errors.Is(err, ErrReportActionMismatch) {
		t.Fatalf("expected ErrReportActionMismatch, got %v", err)
	}

	stored, _ := store.GetReport(context.Background(), report.ID)
	if stored.Status != models.ReportStatusPending {
		t.Error("report must stay pending after a rejected action")
	}
	if _, err := store.GetJob(context.Background(), job.ID); err != nil {
		t.Error("job must be untouched after a rejected action")
	}
}

func TestResolveReportDanglingItemFailsAndStaysPending(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)
	reporter := seedUser(t, store, models.RoleJobseeker)
	report := seedReport(t, store, reporter.ID, "gone-user-id", models.ReportedItemUser, time.Now().UTC())

	_, err := svc.ResolveReport(context.Background(), report.ID, admin.ID, &models.ResolveReportRequest{
		Action: models.ReportActionDisableUser,
	})
	if !errors.Is(err, ErrReportedItemNotFound) {
		t.Fatalf("expected ErrReportedItemNotFound, got %v", err)
	}

	stored, _ := store.GetReport(context.Background(), report.ID)
	if stored.Status != models.ReportStatusPending {
		t.Error("report must stay pending when the reported item is gone")
	}
}

func TestResolveReportNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	admin := seedUser(t, store, models.RoleAdmin)

	if _, err := svc.ResolveReport(context.Background(), "missing", admin.ID, &models.ResolveReportRequest{}); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestPendingReportsJoinsReporterNewestFirst(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	reporter := seedUser(t, store, models.RoleJobseeker)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := seedReport(t, store, reporter.ID, job.ID, models.ReportedItemJob, base)
	newer := seedReport(t, store, reporter.ID, employer.ID, models.ReportedItemUser, base.Add(time.Hour))

	// Resolved reports never show up in the queue.
	resolved := seedReport(t, store, reporter.ID, job.ID, models.ReportedItemJob, base.Add(2*time.Hour))
	resolved.Status = models.ReportStatusResolved
	if err := store.SaveReport(context.Background(), &resolved); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	reports, err := svc.PendingReports(context.Background(), Page{})
	if err != nil {
		t.Fatalf("PendingReports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}
	if reports[0].ID != newer.ID || reports[1].ID != older.ID {
		t.Errorf("reports not newest-first: %s, %s", reports[0].ID, reports[1].ID)
	}
	if reports[0].Reporter.Name != reporter.Name || reports[0].Reporter.Email != reporter.Email {
		t.Errorf("reporter join missing: %+v", reports[0].Reporter)
	}
}

func TestPendingReportsPagination(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	reporter := seedUser(t, store, models.RoleJobseeker)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedReport(t, store, reporter.ID, "user-"+uuid.New().String(), models.ReportedItemUser, base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := svc.PendingReports(context.Background(), Page{Limit: 2})
	if err != nil {
		t.Fatalf("PendingReports: %v", err)
	}
	page2, err := svc.PendingReports(context.Background(), Page{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("PendingReports: %v", err)
	}
	if len(page1) != 2 || len(page2) != 2 {
		t.Fatalf("page sizes = %d, %d, want 2, 2", len(page1), len(page2))
	}
	if page1[0].ID == page2[0].ID {
		t.Error("pages overlap")
	}
}

func TestReviewJobApproveBackfillsRequestEmail(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "")

	updated, err := svc.ReviewJob(context.Background(), job.ID, &models.ReviewJobRequest{
		Action:        models.JobActionApprove,
		EmployerEmail: "e@x.com",
	})
	if err != nil {
		t.Fatalf("ReviewJob: %v", err)
	}
	if updated.Status != models.JobStatusApproved {
		t.Errorf("status = %q, want approved", updated.Status)
	}
	if updated.EmployerEmail != "e@x.com" {
		t.Errorf("employerEmail = %q, want e@x.com", updated.EmployerEmail)
	}

	stored, _ := store.GetJob(context.Background(), job.ID)
	if stored.EmployerEmail != "e@x.com" || stored.Status != models.JobStatusApproved {
		t.Errorf("job not persisted: %+v", stored)
	}

	notifs, _ := store.Notifications(context.Background(), employer.ID)
	if len(notifs) != 1 {
		t.Fatalf("len(notifications) = %d, want exactly 1", len(notifs))
	}
	if notifs[0].Type != models.NotificationJobApproved {
		t.Errorf("notification type = %q, want job_approved", notifs[0].Type)
	}
	if notifs[0].RelatedItem != job.ID {
		t.Errorf("notification relatedItem = %q, want %q", notifs[0].RelatedItem, job.ID)
	}
}

func TestReviewJobEmailFallsBackToEmployerAccount(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "")

	updated, err := svc.ReviewJob(context.Background(), job.ID, &models.ReviewJobRequest{Action: models.JobActionReject})
	if err != nil {
		t.Fatalf("ReviewJob: %v", err)
	}
	if updated.EmployerEmail != employer.Email {
		t.Errorf("employerEmail = %q, want employer account email %q", updated.EmployerEmail, employer.Email)
	}
	if updated.Status != models.JobStatusRejected {
		t.Errorf("status = %q, want rejected", updated.Status)
	}

	notifs, _ := store.Notifications(context.Background(), employer.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotificationJobRejected {
		t.Errorf("want one job_rejected notification, got %+v", notifs)
	}
}

func TestReviewJobEmailFallsBackToPlaceholder(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	job := seedJob(t, store, "orphaned-employer", "")

	updated, err := svc.ReviewJob(context.Background(), job.ID, &models.ReviewJobRequest{Action: models.JobActionApprove})
	if err != nil {
		t.Fatalf("ReviewJob: %v", err)
	}
	if updated.EmployerEmail != fallbackEmployerEmail {
		t.Errorf("employerEmail = %q, want placeholder %q", updated.EmployerEmail, fallbackEmployerEmail)
	}
}

func TestReviewJobKeepsExistingEmail(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "stored@x.com")

	updated, err := svc.ReviewJob(context.Background(), job.ID, &models.ReviewJobRequest{
		Action:        models.JobActionApprove,
		EmployerEmail: "other@x.com",
	})
	if err != nil {
		t.Fatalf("ReviewJob: %v", err)
	}
	if updated.EmployerEmail != "stored@x.com" {
		t.Errorf("stored email must win, got %q", updated.EmployerEmail)
	}
}

func TestReviewJobInvalidActionIsFailFast(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "")

	_, err := svc.ReviewJob(context.Background(), job.ID, &models.ReviewJobRequest{
		Action:        "delete",
		EmployerEmail: "e@x.com",
	})
	if !errors.Is(err, ErrInvalidJobAction) {
		t.Fatalf("expected ErrInvalidJobAction, got %v", err)
	}

	stored, _ := store.GetJob(context.Background(), job.ID)
	if stored.Status != models.JobStatusPending {
		t.Errorf("status changed on invalid action: %q", stored.Status)
	}
	if stored.EmployerEmail != "" {
		t.Error("email must not be backfilled before the action validates")
	}
	if notifs, _ := store.Notifications(context.Background(), employer.ID); len(notifs) != 0 {
		t.Error("no notification on invalid action")
	}
}

func TestReviewJobNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)

	if _, err := svc.ReviewJob(context.Background(), "missing", &models.ReviewJobRequest{Action: models.JobActionApprove}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

// Two concurrent reviews of the same job race with last-write-wins
// semantics; the accepted outcome is whichever status landed last, never a
// torn state.
func TestReviewJobConcurrentLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	employer := seedUser(t, store, models.RoleEmployer)
	job := seedJob(t, store, employer.ID, "e@x.com")

	var wg sync.WaitGroup
	for _, action := range []string{models.JobActionApprove, models.JobActionReject} {
		wg.Add(1)
		go func(action string) {
			defer wg.Done()
			if _, err := svc.ReviewJob(context.Background(), job.ID, &models.ReviewJobRequest{Action: action}); err != nil {
				t.Errorf("ReviewJob(%s): %v", action, err)
			}
		}(action)
	}
	wg.Wait()

	stored, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if stored.Status != models.JobStatusApproved && stored.Status != models.JobStatusRejected {
		t.Errorf("final status = %q, want approved or rejected", stored.Status)
	}
	if notifs, _ := store.Notifications(context.Background(), employer.ID); len(notifs) != 2 {
		t.Errorf("each review creates a notification, got %d", len(notifs))
	}
}

func TestListUsersPagination(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, nil)
	for i := 0; i < 5; i++ {
		seedUser(t, store, models.RoleJobseeker)
	}

	all, err := svc.ListUsers(context.Background(), Page{})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len(users) = %d, want 5", len(all))
	}

	page, err := svc.ListUsers(context.Background(), Page{Limit: 3, Offset: 3})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("len(page) = %d, want 2", len(page))
	}
}
