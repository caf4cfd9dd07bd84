package mongostore

import (
	"context"

	"learnly/internal/model"
	"learnly/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// toggleAttempts bounds the compare-and-set loop of Toggle.
const toggleAttempts = 3

type TaskRepository struct {
	coll   *mongo.Collection
	groups *GroupRepository
}

var _ repository.TaskStore = (*TaskRepository)(nil)

func NewTaskRepository(coll *mongo.Collection) *TaskRepository {
	return &TaskRepository{coll: coll, groups: NewGroupRepository(coll)}
}

func (r *TaskRepository) Append(ctx context.Context, groupID string, task *model.Task) error {
	task.GroupID = groupID
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"tasks": task}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrGroupNotFound
	}
	return nil
}

// Toggle reads the current flag and writes its negation only if the
// element still holds that flag. A lost race is retried a few times.
func (r *TaskRepository) Toggle(ctx context.Context, groupID, taskID string) (*model.Task, error) {
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		group, err := r.groups.GetByID(ctx, groupID)
		if err != nil {
			return nil, err
		}

		var current *model.Task
		for i := range group.Tasks {
			if group.Tasks[i].ID == taskID {
				current = &group.Tasks[i]
				break
			}
		}
		if current == nil {
			return nil, repository.ErrTaskNotFound
		}

		res, err := r.coll.UpdateOne(ctx,
			bson.M{
				"_id":   groupID,
				"tasks": bson.M{"$elemMatch": bson.M{"id": taskID, "completed": current.Completed}},
			},
			bson.M{"$set": bson.M{"tasks.$.completed": !current.Completed}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount > 0 {
			toggled := *current
			toggled.Completed = !current.Completed
			return &toggled, nil
		}
	}
	return nil, repository.ErrConflict
}

// Replace pulls the element equal to old and adds updated to the set. When
// no element equals old nothing is added.
func (r *TaskRepository) Replace(ctx context.Context, groupID string, old, updated model.Task) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"tasks": old}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, repository.ErrGroupNotFound
	}
	if res.ModifiedCount == 0 {
		return false, nil
	}

	if err := r.Append(ctx, groupID, &updated); err != nil {
		return true, err
	}
	return true, nil
}

func (r *TaskRepository) ListByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	group, err := r.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Tasks, nil
}
