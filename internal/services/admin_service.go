package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jobboard/backend/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrJobNotFound    = errors.New("job not found")
	ErrReportNotFound = errors.New("report not found")

	// ErrSelfDelete rejects an admin deleting their own account.
	ErrSelfDelete = errors.New("cannot delete own account")

	// ErrInvalidJobAction rejects a job review action other than approve/reject.
	ErrInvalidJobAction = errors.New("invalid job action")

	// ErrReportActionMismatch rejects a resolution action that does not fit
	// the reported item type (e.g. disableUser on a reported job).
	ErrReportActionMismatch = errors.New("action does not match reported item type")

	// ErrReportedItemNotFound means the reported user/job no longer exists,
	// so a side-effecting resolution cannot be applied.
	ErrReportedItemNotFound = errors.New("reported item not found")
)

// Address used when neither the request nor the employer account yields an
// email for a job under review.
const fallbackEmployerEmail = "admin@default.com"

// JobMailer sends the employer an email about a review decision. Optional;
// a nil mailer disables email entirely.
type JobMailer interface {
	SendJobStatusEmail(ctx context.Context, toEmail, jobTitle, status string) error
}

// AdminService implements the admin moderation workflow: user management
// with cascade deletes, report resolution, and job review.
type AdminService struct {
	store  AdminStore
	mailer JobMailer
}

func NewAdminService(store AdminStore, mailer JobMailer) *AdminService {
	return &AdminService{store: store, mailer: mailer}
}

// ListUsers returns a page of user accounts. Credentials are excluded at
// the serialization boundary, not here.
func (s *AdminService) ListUsers(ctx context.Context, page Page) ([]models.User, error) {
	return s.store.ListUsers(ctx, page.Normalize())
}

func (s *AdminService) ListJobs(ctx context.Context, page Page) ([]models.Job, error) {
	return s.store.ListJobs(ctx, page.Normalize())
}

// UpdateUserStatus sets the user's active flag and returns the updated record.
func (s *AdminService) UpdateUserStatus(ctx context.Context, userID string, isActive bool) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = isActive
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the target account and, in the same unit of work, the
// records it owns: an employer's jobs, or a jobseeker's applications.
// Deleting your own account is rejected before anything is touched.
func (s *AdminService) DeleteUser(ctx context.Context, targetID, actorID string) error {
	if targetID == actorID {
		return ErrSelfDelete
	}

	user, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteUser(ctx, targetID); err != nil {
			return err
		}
		switch user.Role {
		case models.RoleEmployer:
			return s.store.DeleteJobsByEmployer(ctx, targetID)
		case models.RoleJobseeker:
			return s.store.DeleteApplicationsByApplicant(ctx, targetID)
		}
		return nil
	})
}

// PendingReports returns a page of unresolved reports, newest first, each
// joined with the reporter's name and email.
func (s *AdminService) PendingReports(ctx context.Context, page Page) ([]models.PendingReport, error) {
	reports, err := s.store.ListPendingReports(ctx, page.Normalize())
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReporterID)
	}
	reporters, err := s.store.GetUsersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PendingReport, 0, len(reports))
	for _, r := range reports {
		pr := models.PendingReport{Report: r}
		pr.Reporter.ID = r.ReporterID
		if u, ok := reporters[r.ReporterID]; ok {
			pr.Reporter.Name = u.Name
			pr.Reporter.Email = u.Email
		}
		out = append(out, pr)
	}
	return out, nil
}

// ResolveReport marks the report resolved and applies the chosen corrective
// action. The action must fit the reported item type: disableUser is only
// valid against a reported user, removeContent against a reported job. Any
// other action resolves the report with no side effect. Report update and
// side effect commit together; if the reported item is gone the whole
// operation fails and the report stays pending.
func (s *AdminService) ResolveReport(ctx context.Context, reportID, actorID string, req *models.ResolveReportRequest) (*models.Report, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case models.ReportActionDisableUser:
		if report.ReportedItemType != models.ReportedItemUser {
			return nil, ErrReportActionMismatch
		}
	case models.ReportActionRemoveContent:
		if report.ReportedItemType != models.ReportedItemJob {
			return nil, ErrReportActionMismatch
		}
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		switch req.Action {
		case models.ReportActionDisableUser:
			reported, err := s.store.GetUser(ctx, report.ReportedItem)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					return ErrReportedItemNotFound
				}
				return err
			}
			reported.IsActive = false
			reported.UpdatedAt = time.Now().UTC()
			if err := s.store.SaveUser(ctx, reported); err != nil {
				return err
			}
		case models.ReportActionRemoveContent:
			if _, err := s.store.GetJob(ctx, report.ReportedItem); err != nil {
				if errors.Is(err, ErrJobNotFound) {
					return ErrReportedItemNotFound
				}
				return err
			}
			if err := s.store.DeleteJob(ctx, report.ReportedItem); err != nil {
				return err
			}
		}

		report.Status = models.ReportStatusResolved
		report.ResolutionNotes = req.ResolutionNotes
		report.ResolvedBy = actorID
		report.ResolvedAt = time.Now().UTC()
		return s.store.SaveReport(ctx, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ReviewJob approves or rejects a job posting. Validation happens before
// any mutation: an unknown action leaves the job untouched, including the
// employer email backfill. On success the status change and the employer
// notification commit together, then a status email goes out best-effort.
func (s *AdminService) ReviewJob(ctx context.Context, jobID string, req *models.ReviewJobRequest) (*models.Job, error) {
	var status, notifType string
	switch req.Action {
	case models.JobActionApprove:
		status = models.JobStatusApproved
		notifType = models.NotificationJobApproved
	case models.JobActionReject:
		status = models.JobStatusRejected
		notifType = models.NotificationJobRejected
	default:
		return nil, ErrInvalidJobAction
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Older postings may lack an employer email; prefer the request value,
	// then the employer account, then the placeholder.
	if job.EmployerEmail == "" {
		if req.EmployerEmail != "" {
			job.EmployerEmail = req.EmployerEmail
		} else if employer, err := s.store.GetUser(ctx, job.EmployerID); err == nil {
			job.EmployerEmail = employer.Email
		} else {
			job.EmployerEmail = fallbackEmployerEmail
		}
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		job.Status = status
		job.UpdatedAt = time.Now().UTC()
		if err := s.store.SaveJob(ctx, job); err != nil {
			return err
		}

		notification := &models.Notification{
			ID:          uuid.New().String(),
			UserID:      job.EmployerID,
			Message:     fmt.Sprintf("Your job %q has been %s", job.Title, status),
			Type:        notifType,
			RelatedItem: job.ID,
			CreatedAt:   time.Now().UTC(),
		}
		return s.store.CreateNotification(ctx, notification)
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendJobStatusEmail(ctx, job.EmployerEmail, job.Title, status); err != nil {
			log.Printf("[ReviewJob] status email failed job=%s to=%s err=%v", job.ID, job.EmployerEmail, err)
		}
	}

	return job, nil
}
