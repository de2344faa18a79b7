package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestEnsureSchema(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, EnsureSchema(context.Background(), db))

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	assert.Error(t, EnsureSchema(context.Background(), db))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedReference_InsertsAllRows(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	for range seedRegions {
		mock.ExpectExec("INSERT INTO regions").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range seedDepartments {
		mock.ExpectExec("INSERT INTO departments").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range seedTowns {
		mock.ExpectExec("INSERT INTO towns").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	assert.NoError(t, SeedReference(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedReference_RollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO regions").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	assert.Error(t, SeedReference(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
