package repository

import (
	"context"

	"gorm.io/gorm"
)

// PostgresBackend serves all stores from one gorm connection.
type PostgresBackend struct {
	db     *gorm.DB
	groups *GroupRepository
	tasks  *TaskRepository
	users  *UserRepository
}

var _ Backend = (*PostgresBackend)(nil)

func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{
		db:     db,
		groups: NewGroupRepository(db),
		tasks:  NewTaskRepository(db),
		users:  NewUserRepository(db),
	}
}

func (b *PostgresBackend) Groups() GroupStore { return b.groups }
func (b *PostgresBackend) Tasks() TaskStore   { return b.tasks }
func (b *PostgresBackend) Users() UserStore   { return b.users }

func (b *PostgresBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *PostgresBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
