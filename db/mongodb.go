package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pratyushashukla/IP-BE/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// verify MongoDB implements the store interfaces in compile time
var (
	_ UserStore       = (*MongoDB)(nil)
	_ CollectionStore = (*MongoDB)(nil)
)

const (
	USER_COLL = "users"
)

type MongoDB struct {
	client *mongo.Client
	db     string
}

func NewMongo(conn string, db string) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conn))
	if err != nil {
		return nil, err
	}

	return &MongoDB{client: client, db: db}, nil
}

func (m *MongoDB) users() *mongo.Collection {
	return m.client.Database(m.db).Collection(USER_COLL)
}

// activeFilter hides soft-deleted users from every lookup.
func activeFilter(extra bson.D) bson.D {
	return append(bson.D{{Key: "isActive", Value: true}}, extra...)
}

func (m *MongoDB) Create(ctx context.Context, user models.User) (models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	user.IsActive = true
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}

	_, err := m.users().InsertOne(ctx, user)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (m *MongoDB) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (m *MongoDB) FindByEmail(ctx context.Context, email string) (user models.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err = m.users().FindOne(ctx, activeFilter(bson.D{{Key: "email", Value: email}})).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (m *MongoDB) FindByID(ctx context.Context, id models.UserID) (user models.User, err error) {
	err = m.users().FindOne(ctx, activeFilter(bson.D{{Key: "_id", Value: bson.ObjectID(id)}})).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (m *MongoDB) setUserFields(ctx context.Context, id models.UserID, fields bson.D) error {
	fields = append(fields, bson.E{Key: "updatedAt", Value: time.Now()})
	res, err := m.users().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: bson.ObjectID(id)}},
		bson.D{{Key: "$set", Value: fields}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoDB) MarkActive(ctx context.Context, id models.UserID, now time.Time) error {
	return m.setUserFields(ctx, id, bson.D{
		{Key: "tokenStatus", Value: true},
		{Key: "tokenCreatedAt", Value: now},
	})
}

func (m *MongoDB) MarkInactive(ctx context.Context, id models.UserID) error {
	return m.setUserFields(ctx, id, bson.D{
		{Key: "tokenStatus", Value: false},
		{Key: "tokenCreatedAt", Value: nil},
		{Key: "lastActivityTime", Value: nil},
	})
}

func (m *MongoDB) TouchActivity(ctx context.Context, id models.UserID, now time.Time) error {
	return m.setUserFields(ctx, id, bson.D{
		{Key: "lastActivityTime", Value: now},
	})
}

func (m *MongoDB) SetResetCode(ctx context.Context, id models.UserID, code string, expire time.Time) error {
	return m.setUserFields(ctx, id, bson.D{
		{Key: "resetPasswordToken", Value: code},
		{Key: "resetPasswordExpire", Value: expire},
	})
}

func (m *MongoDB) ClearResetCode(ctx context.Context, id models.UserID) error {
	return m.setUserFields(ctx, id, bson.D{
		{Key: "resetPasswordToken", Value: ""},
		{Key: "resetPasswordExpire", Value: nil},
	})
}

func (m *MongoDB) UpdatePassword(ctx context.Context, id models.UserID, passwordHash string) error {
	return m.setUserFields(ctx, id, bson.D{
		{Key: "password", Value: passwordHash},
	})
}

// CollectionStore implementation. Raw documents in, raw documents out;
// schema validation belongs to the collaborating services.

func (m *MongoDB) coll(name string) *mongo.Collection {
	return m.client.Database(m.db).Collection(name)
}

func (m *MongoDB) List(ctx context.Context, collection string) ([]bson.M, error) {
	cursor, err := m.coll(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *MongoDB) Get(ctx context.Context, collection, id string) (bson.M, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc bson.M
	err = m.coll(collection).FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return doc, err
}

func (m *MongoDB) Insert(ctx context.Context, collection string, doc bson.M) (string, error) {
	res, err := m.coll(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}

	oid, _ := res.InsertedID.(bson.ObjectID)
	return oid.Hex(), nil
}

func (m *MongoDB) Update(ctx context.Context, collection, id string, doc bson.M) (bson.M, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	delete(doc, "_id")
	var updated bson.M
	err = m.coll(collection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: doc}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return updated, err
}

func (m *MongoDB) Delete(ctx context.Context, collection, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := m.coll(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
