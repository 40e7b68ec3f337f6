package services

import (
	"context"

	"github.com/jobboard/backend/internal/models"
)

// Page bounds a listing scan. Zero values fall back to defaults applied by
// the service layer.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// AdminStore is the persistence surface the admin service runs on. Lookup
// misses return the package sentinel errors (ErrUserNotFound, ...).
//
// WithTx runs fn as one atomic unit of work: either every mutation fn makes
// is persisted, or none is. Implementations pass a derived context to fn;
// store calls inside fn must use that context.
type AdminStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	ListUsers(ctx context.Context, page Page) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error

	ListJobs(ctx context.Context, page Page) ([]models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	SaveJob(ctx context.Context, job *models.Job) error
	DeleteJob(ctx context.Context, id string) error
	DeleteJobsByEmployer(ctx context.Context, employerID string) error

	DeleteApplicationsByApplicant(ctx context.Context, applicantID string) error

	// ListPendingReports returns status=pending reports, newest first.
	ListPendingReports(ctx context.Context, page Page) ([]models.Report, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	SaveReport(ctx context.Context, report *models.Report) error

	CreateNotification(ctx context.Context, notification *models.Notification) error

	// GetUsersByID returns the users that exist among ids, keyed by id.
	GetUsersByID(ctx context.Context, ids []string) (map[string]models.User, error)
}
