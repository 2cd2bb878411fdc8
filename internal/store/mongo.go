package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixlyhq/fixly-api/internal/models"
)

// Collection names. Clients live in "users" to match the existing data.
const (
	CollUsers     = "users"
	CollProviders = "providers"
	CollAdmins    = "admins"
	CollServices  = "services"
	CollBookings  = "bookings"
)

// EnsureIndexes creates the unique email index on each account collection.
// Uniqueness is per collection: a client and a provider may share an email.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	emailIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, name := range []string{CollUsers, CollProviders, CollAdmins} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, emailIdx); err != nil {
			return err
		}
	}
	tokenIdx := mongo.IndexModel{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}}
	if _, err := db.Collection(CollUsers).Indexes().CreateOne(ctx, tokenIdx); err != nil {
		return err
	}
	return nil
}

func mapInsertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func mapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// --- clients ---

type MongoClientStore struct {
	coll *mongo.Collection
}

func NewMongoClientStore(db *mongo.Database) *MongoClientStore {
	return &MongoClientStore{coll: db.Collection(CollUsers)}
}

func (s *MongoClientStore) Insert(ctx context.Context, c *models.Client) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, c)
	return mapInsertErr(err)
}

func (s *MongoClientStore) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		return nil, mapFindErr(err)
	}
	return &c, nil
}

func (s *MongoClientStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var c models.Client
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapFindErr(err)
	}
	return &c, nil
}

func (s *MongoClientStore) List(ctx context.Context) ([]models.Client, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := make([]models.Client, 0)
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *MongoClientStore) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire int64) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"resetPasswordToken":  tokenHash,
			"resetPasswordExpire": expire,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoClientStore) ConsumeResetToken(ctx context.Context, tokenHash string, now int64, passwordHash string) (*models.Client, error) {
	// Match and clear in one operation; the expiry check lives in the
	// filter so an elapsed token can never match.
	filter := bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	}
	var c models.Client
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return &c, nil
}

// --- providers ---

type MongoProviderStore struct {
	coll *mongo.Collection
}

func NewMongoProviderStore(db *mongo.Database) *MongoProviderStore {
	return &MongoProviderStore{coll: db.Collection(CollProviders)}
}

func (s *MongoProviderStore) Insert(ctx context.Context, p *models.Provider) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, p)
	return mapInsertErr(err)
}

func (s *MongoProviderStore) FindByEmail(ctx context.Context, email string) (*models.Provider, error) {
	var p models.Provider
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		return nil, mapFindErr(err)
	}
	return &p, nil
}

func (s *MongoProviderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Provider, error) {
	var p models.Provider
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapFindErr(err)
	}
	return &p, nil
}

func (s *MongoProviderStore) List(ctx context.Context) ([]models.Provider, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	providers := make([]models.Provider, 0)
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (s *MongoProviderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- admins ---

type MongoAdminStore struct {
	coll *mongo.Collection
}

func NewMongoAdminStore(db *mongo.Database) *MongoAdminStore {
	return &MongoAdminStore{coll: db.Collection(CollAdmins)}
}

func (s *MongoAdminStore) Insert(ctx context.Context, a *models.Admin) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, a)
	return mapInsertErr(err)
}

func (s *MongoAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		return nil, mapFindErr(err)
	}
	return &a, nil
}
