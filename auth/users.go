package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"mealbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUsers struct {
	coll *mongo.Collection
}

func NewMongoUsers(coll *mongo.Collection) *MongoUsers {
	return &MongoUsers{coll: coll}
}

func (m *MongoUsers) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_username"),
	})
	return err
}

func (m *MongoUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := m.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *MongoUsers) Create(ctx context.Context, u *models.User) error {
	_, err := m.coll.InsertOne(ctx, u)
	return err
}

func (m *MongoUsers) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := m.coll.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// MemoryUsers backs STORE=memory.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[string]models.User{}}
}

func (m *MemoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return errors.New("username already taken")
	}
	m.users[u.Username] = *u
	return nil
}

func (m *MemoryUsers) TouchLogin(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, u := range m.users {
		if u.UserID == userID {
			u.LastLogin = at
			m.users[name] = u
		}
	}
	return nil
}
