// Package mongostore keeps each group as one document with its members and
// tasks embedded.
package mongostore

import (
	"context"
	"time"

	"learnly/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	groupsCollection = "groups"
	usersCollection  = "users"
)

type Store struct {
	client *mongo.Client
	groups *GroupRepository
	tasks  *TaskRepository
	users  *UserRepository
}

var _ repository.Backend = (*Store)(nil)

// Connect dials uri and returns a Store over database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return New(client.Database(database)), nil
}

func New(db *mongo.Database) *Store {
	groups := db.Collection(groupsCollection)
	return &Store{
		client: db.Client(),
		groups: NewGroupRepository(groups),
		tasks:  NewTaskRepository(groups),
		users:  NewUserRepository(db.Collection(usersCollection)),
	}
}

// EnsureIndexes creates the unique email index and the member lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.groups.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

func (s *Store) Groups() repository.GroupStore { return s.groups }
func (s *Store) Tasks() repository.TaskStore   { return s.tasks }
func (s *Store) Users() repository.UserStore   { return s.users }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
