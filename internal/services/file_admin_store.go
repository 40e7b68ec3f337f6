package services

import (
	"context"
	"sort"
	"sync"

	"github.com/jobboard/backend/internal/models"
	"github.com/jobboard/backend/internal/storage"
)

// userRecord is the on-disk user shape. models.User hides the password hash
// from JSON, so the store keeps its own record with an explicit field.
type userRecord struct {
	models.User
	Password string `json:"password"`
}

func toUserRecord(u models.User) userRecord {
	return userRecord{User: u, Password: u.PasswordHash}
}

func (r userRecord) model() models.User {
	u := r.User
	u.PasswordHash = r.Password
	return u
}

// fileData is the on-disk shape of the file store: one JSON document with a
// map per collection.
type fileData struct {
	Users         map[string]userRecord          `json:"users"`
	Jobs          map[string]models.Job          `json:"jobs"`
	Reports       map[string]models.Report       `json:"reports"`
	Applications  map[string]models.Application  `json:"applications"`
	Notifications map[string]models.Notification `json:"notifications"`
}

func newFileData() fileData {
	return fileData{
		Users:         make(map[string]userRecord),
		Jobs:          make(map[string]models.Job),
		Reports:       make(map[string]models.Report),
		Applications:  make(map[string]models.Application),
		Notifications: make(map[string]models.Notification),
	}
}

// FileAdminStore is a single-process AdminStore over a JSON file. Suited to
// local development and tests; production runs on MongoAdminStore.
type FileAdminStore struct {
	file *storage.JSONStore
	// mu guards data. WithTx holds it for the whole unit of work and marks
	// the context so nested store calls skip re-acquiring it.
	mu   sync.Mutex
	data fileData
}

type fileTxKey struct{}

func NewFileAdminStore(dataDir string) (*FileAdminStore, error) {
	file, err := storage.NewJSONStore(dataDir, "jobboard.json")
	if err != nil {
		return nil, err
	}

	s := &FileAdminStore{
		file: file,
		data: newFileData(),
	}
	if err := file.Load(&s.data); err != nil {
		return nil, err
	}
	// Maps are nil when the file predates a collection.
	if s.data.Users == nil {
		s.data.Users = make(map[string]userRecord)
	}
	if s.data.Jobs == nil {
		s.data.Jobs = make(map[string]models.Job)
	}
	if s.data.Reports == nil {
		s.data.Reports = make(map[string]models.Report)
	}
	if s.data.Applications == nil {
		s.data.Applications = make(map[string]models.Application)
	}
	if s.data.Notifications == nil {
		s.data.Notifications = make(map[string]models.Notification)
	}
	return s, nil
}

// acquire takes the store lock unless ctx marks a running transaction,
// which already holds it.
func (s *FileAdminStore) acquire(ctx context.Context) (inTx bool, release func()) {
	if ctx.Value(fileTxKey{}) != nil {
		return true, func() {}
	}
	s.mu.Lock()
	return false, s.mu.Unlock
}

func (s *FileAdminStore) persist() error {
	return s.file.Save(&s.data)
}

// WithTx snapshots the in-memory state, runs fn, and either persists the
// result or restores the snapshot. Single-process only, by construction.
func (s *FileAdminStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snapshot fileData
	if err := storage.Clone(&s.data, &snapshot); err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, fileTxKey{}, struct{}{})); err != nil {
		s.data = snapshot
		return err
	}
	if err := s.persist(); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// mutate applies fn under the lock and persists unless inside a transaction,
// where the commit happens once in WithTx.
func (s *FileAdminStore) mutate(ctx context.Context, fn func()) error {
	inTx, release := s.acquire(ctx)
	defer release()

	fn()
	if inTx {
		return nil
	}
	return s.persist()
}

func (s *FileAdminStore) ListUsers(ctx context.Context, page Page) ([]models.User, error) {
	_, release := s.acquire(ctx)
	defer release()

	users := make([]models.User, 0, len(s.data.Users))
	for _, u := range s.data.Users {
		users = append(users, u.model())
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return applyPage(users, page), nil
}

func (s *FileAdminStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	_, release := s.acquire(ctx)
	defer release()

	r, ok := s.data.Users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.model()
	return &u, nil
}

func (s *FileAdminStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	_, release := s.acquire(ctx)
	defer release()

	for _, r := range s.data.Users {
		if r.Email == email {
			user := r.model()
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *FileAdminStore) SaveUser(ctx context.Context, user *models.User) error {
	return s.mutate(ctx, func() {
		s.data.Users[user.ID] = toUserRecord(*user)
	})
}

func (s *FileAdminStore) DeleteUser(ctx context.Context, id string) error {
	return s.mutate(ctx, func() {
		delete(s.data.Users, id)
	})
}

func (s *FileAdminStore) ListJobs(ctx context.Context, page Page) ([]models.Job, error) {
	_, release := s.acquire(ctx)
	defer release()

	jobs := make([]models.Job, 0, len(s.data.Jobs))
	for _, j := range s.data.Jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
	return applyPage(jobs, page), nil
}

func (s *FileAdminStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	_, release := s.acquire(ctx)
	defer release()

	j, ok := s.data.Jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &j, nil
}

func (s *FileAdminStore) SaveJob(ctx context.Context, job *models.Job) error {
	return s.mutate(ctx, func() {
		s.data.Jobs[job.ID] = *job
	})
}

func (s *FileAdminStore) DeleteJob(ctx context.Context, id string) error {
	return s.mutate(ctx, func() {
		delete(s.data.Jobs, id)
	})
}

func (s *FileAdminStore) DeleteJobsByEmployer(ctx context.Context, employerID string) error {
	return s.mutate(ctx, func() {
		for id, j := range s.data.Jobs {
			if j.EmployerID == employerID {
				delete(s.data.Jobs, id)
			}
		}
	})
}

func (s *FileAdminStore) DeleteApplicationsByApplicant(ctx context.Context, applicantID string) error {
	return s.mutate(ctx, func() {
		for id, a := range s.data.Applications {
			if a.ApplicantID == applicantID {
				delete(s.data.Applications, id)
			}
		}
	})
}

func (s *FileAdminStore) ListPendingReports(ctx context.Context, page Page) ([]models.Report, error) {
	_, release := s.acquire(ctx)
	defer release()

	reports := make([]models.Report, 0)
	for _, r := range s.data.Reports {
		if r.Status == models.ReportStatusPending {
			reports = append(reports, r)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})
	return applyPage(reports, page), nil
}

func (s *FileAdminStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	_, release := s.acquire(ctx)
	defer release()

	r, ok := s.data.Reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	return &r, nil
}

func (s *FileAdminStore) SaveReport(ctx context.Context, report *models.Report) error {
	return s.mutate(ctx, func() {
		s.data.Reports[report.ID] = *report
	})
}

func (s *FileAdminStore) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return s.mutate(ctx, func() {
		s.data.Notifications[notification.ID] = *notification
	})
}

func (s *FileAdminStore) GetUsersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	_, release := s.acquire(ctx)
	defer release()

	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if r, ok := s.data.Users[id]; ok {
			out[id] = r.model()
		}
	}
	return out, nil
}

// SaveApplication exists for seeding and tests; the admin workflow itself
// only ever deletes applications.
func (s *FileAdminStore) SaveApplication(ctx context.Context, app *models.Application) error {
	return s.mutate(ctx, func() {
		s.data.Applications[app.ID] = *app
	})
}

// CountApplications reports how many applications are stored, optionally
// filtered by applicant. Used by cascade tests.
func (s *FileAdminStore) CountApplications(ctx context.Context, applicantID string) (int, error) {
	_, release := s.acquire(ctx)
	defer release()

	if applicantID == "" {
		return len(s.data.Applications), nil
	}
	n := 0
	for _, a := range s.data.Applications {
		if a.ApplicantID == applicantID {
			n++
		}
	}
	return n, nil
}

// Notifications returns the stored notifications for a user, used by tests
// to assert the review side effect.
func (s *FileAdminStore) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	_, release := s.acquire(ctx)
	defer release()

	out := make([]models.Notification, 0)
	for _, n := range s.data.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func applyPage[T any](items []T, page Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}
