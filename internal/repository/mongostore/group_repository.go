package mongostore

import (
	"context"
	"errors"

	"learnly/internal/model"
	"learnly/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GroupRepository struct {
	coll *mongo.Collection
}

var _ repository.GroupStore = (*GroupRepository)(nil)

func NewGroupRepository(coll *mongo.Collection) *GroupRepository {
	return &GroupRepository{coll: coll}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	if group.ID == "" {
		group.ID = primitive.NewObjectID().Hex()
	}
	if group.Members == nil {
		group.Members = []string{}
	}
	_, err := r.coll.InsertOne(ctx, group)
	return err
}

func (r *GroupRepository) ListByMember(ctx context.Context, identity string) ([]model.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"members": identity}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []model.Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	for i := range groups {
		normalize(&groups[i])
	}
	return groups, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	normalize(&group)
	return &group, nil
}

// AddMember uses $addToSet so joining twice leaves one entry.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, identity string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"members": identity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, identity string) (bool, error) {
	err := r.coll.FindOne(ctx,
		bson.M{"_id": groupID, "members": identity},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

func normalize(g *model.Group) {
	if g.Members == nil {
		g.Members = []string{}
	}
	if g.Tasks == nil {
		g.Tasks = []model.Task{}
	}
	for i := range g.Tasks {
		g.Tasks[i].GroupID = g.ID
	}
}
