package repository_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"todoapi/internal/model"
	"todoapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

var todoColumns = []string{
	"id", "title", "description", "is_completed", "created_at",
	"updated_at", "due_date", "priority", "category", "tags", "version",
}

func todoRow(id int64, title string, isCompleted bool) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{id, title, nil, isCompleted, now, now, nil, int64(model.PriorityNormal), nil, nil, int64(1)}
}

func TestTodoRepository_FindAll(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	rows := sqlmock.NewRows(todoColumns).
		AddRow(todoRow(1, "First", false)...).
		AddRow(todoRow(2, "Second", true)...)
	mock.ExpectQuery(`SELECT .* FROM "todo_items" ORDER BY id`).
		WillReturnRows(rows)

	// Act
	todos, err := repo.FindAll(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, todos, 2)
	assert.Equal(t, int64(1), todos[0].ID)
	assert.Equal(t, "First", todos[0].Title)
	assert.True(t, todos[1].IsCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_FindByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	rows := sqlmock.NewRows(todoColumns).AddRow(todoRow(42, "Answer everything", false)...)
	mock.ExpectQuery(`SELECT .* FROM "todo_items" WHERE id = .*`).
		WillReturnRows(rows)

	// Act
	todo, err := repo.FindByID(context.Background(), 42)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, todo)
	assert.Equal(t, int64(42), todo.ID)
	assert.Equal(t, "Answer everything", todo.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "todo_items" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	todo, err := repo.FindByID(context.Background(), 9999999)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
	assert.Nil(t, todo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_FindByID_StoreError(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "todo_items" WHERE id = .*`).
		WillReturnError(assert.AnError)

	// Act
	todo, err := repo.FindByID(context.Background(), 1)

	// Assert
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrTodoNotFound)
	assert.Nil(t, todo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_FindByCompletion(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	rows := sqlmock.NewRows(todoColumns).AddRow(todoRow(3, "Done already", true)...)
	mock.ExpectQuery(`SELECT .* FROM "todo_items" WHERE is_completed = .* ORDER BY id`).
		WillReturnRows(rows)

	// Act
	todos, err := repo.FindByCompletion(context.Background(), true)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.True(t, todos[0].IsCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Insert(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	now := time.Now().UTC()
	todo := &model.TodoItem{
		Title:     "Buy milk",
		CreatedAt: now,
		UpdatedAt: now,
		Priority:  model.PriorityNormal,
		Version:   1,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "todo_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	// Act
	err := repo.Insert(context.Background(), todo)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(7), todo.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Update_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	todo := &model.TodoItem{
		ID:        7,
		Title:     "Buy oat milk",
		UpdatedAt: time.Now().UTC(),
		Priority:  model.PriorityHigh,
		Version:   2,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "todo_items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.Update(context.Background(), todo)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(3), todo.Version) // version advanced with the row
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Update_Conflict(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	todo := &model.TodoItem{ID: 7, Title: "Stale write", Version: 1}

	// Guarded write misses because the row moved to a newer version,
	// but the row itself still exists.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "todo_items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "todo_items" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	// Act
	err := repo.Update(context.Background(), todo)

	// Assert
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, int64(1), todo.Version) // untouched on failure
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Update_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	todo := &model.TodoItem{ID: 9999999, Title: "Ghost", Version: 1}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "todo_items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "todo_items" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	// Act
	err := repo.Update(context.Background(), todo)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Delete_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "todo_items" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.Delete(context.Background(), 7)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Delete_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTodoRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "todo_items" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := repo.Delete(context.Background(), 9999999)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
