package services

import (
	"context"
	"crypto/tls"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/backend/internal/models"
)

// MongoAdminStore is the production AdminStore: five collections in one
// database, multi-document transactions for the cascading operations.
type MongoAdminStore struct {
	client           *mongo.Client
	db               *mongo.Database
	usersCol         *mongo.Collection
	jobsCol          *mongo.Collection
	reportsCol       *mongo.Collection
	applicationsCol  *mongo.Collection
	notificationsCol *mongo.Collection
}

func NewMongoAdminStore(ctx context.Context, mongoURI, dbName string) (*MongoAdminStore, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	s := &MongoAdminStore{
		client:           client,
		db:               db,
		usersCol:         db.Collection("users"),
		jobsCol:          db.Collection("jobs"),
		reportsCol:       db.Collection("reports"),
		applicationsCol:  db.Collection("applications"),
		notificationsCol: db.Collection("notifications"),
	}

	// Best-effort indexes.
	_, _ = s.usersCol.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	_, _ = s.jobsCol.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employer", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	_, _ = s.reportsCol.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	_, _ = s.applicationsCol.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "applicant", Value: 1}},
	})
	_, _ = s.notificationsCol.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	log.Printf("MongoDB connected: db=%s", dbName)
	return s, nil
}

func (s *MongoAdminStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// WithTx runs fn inside a MongoDB session transaction. Requires a replica
// set (Atlas qualifies).
func (s *MongoAdminStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *MongoAdminStore) ListUsers(ctx context.Context, page Page) ([]models.User, error) {
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))

	cur, err := s.usersCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make([]models.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoAdminStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoAdminStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoAdminStore) SaveUser(ctx context.Context, user *models.User) error {
	_, err := s.usersCol.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoAdminStore) DeleteUser(ctx context.Context, id string) error {
	_, err := s.usersCol.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoAdminStore) ListJobs(ctx context.Context, page Page) ([]models.Job, error) {
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))

	cur, err := s.jobsCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	jobs := make([]models.Job, 0)
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *MongoAdminStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.jobsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *MongoAdminStore) SaveJob(ctx context.Context, job *models.Job) error {
	_, err := s.jobsCol.ReplaceOne(ctx, bson.M{"_id": job.ID}, job, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoAdminStore) DeleteJob(ctx context.Context, id string) error {
	_, err := s.jobsCol.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoAdminStore) DeleteJobsByEmployer(ctx context.Context, employerID string) error {
	_, err := s.jobsCol.DeleteMany(ctx, bson.M{"employer": employerID})
	return err
}

func (s *MongoAdminStore) DeleteApplicationsByApplicant(ctx context.Context, applicantID string) error {
	_, err := s.applicationsCol.DeleteMany(ctx, bson.M{"applicant": applicantID})
	return err
}

func (s *MongoAdminStore) ListPendingReports(ctx context.Context, page Page) ([]models.Report, error) {
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))

	cur, err := s.reportsCol.Find(ctx, bson.M{"status": models.ReportStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := make([]models.Report, 0)
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *MongoAdminStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := s.reportsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (s *MongoAdminStore) SaveReport(ctx context.Context, report *models.Report) error {
	_, err := s.reportsCol.ReplaceOne(ctx, bson.M{"_id": report.ID}, report, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoAdminStore) CreateNotification(ctx context.Context, notification *models.Notification) error {
	_, err := s.notificationsCol.InsertOne(ctx, notification)
	return err
}

func (s *MongoAdminStore) GetUsersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
