package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"englishcard/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

var wordColumns = []string{"word_id", "english", "russian", "created_at"}

func TestWordRepo_PickRandomWord(t *testing.T) {
	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name:          "word found",
			userID:        1,
			mockRows:      sqlmock.NewRows(wordColumns).AddRow(10, "cat", "кошка", time.Now()),
			expectedNil:   false,
			expectedError: false,
		},
		{
			name:          "empty store",
			userID:        1,
			mockRows:      sqlmock.NewRows(wordColumns),
			expectedNil:   true,
			expectedError: false,
		},
		{
			name:          "query error",
			userID:        1,
			mockError:     fmt.Errorf("query error"),
			expectedNil:   true,
			expectedError: true,
		},
		{
			name:          "scan error",
			userID:        1,
			mockRows:      sqlmock.NewRows(wordColumns).AddRow("invalid", "cat", "кошка", time.Now()),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			query := "SELECT w.word_id, w.english, w.russian, w.created_at FROM words w LEFT JOIN user_words uw ON uw.word_id = w.word_id AND uw.user_id = \\$1 ORDER BY RANDOM\\(\\) LIMIT 1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			word, err := repo.PickRandomWord(context.Background(), tt.userID)

			if tt.expectedError {
				assert.ErrorIs(t, err, domain.ErrStorage)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, word)
			} else {
				assert.Equal(t, int64(10), word.ID)
				assert.Equal(t, "cat", word.English)
				assert.Equal(t, "кошка", word.Russian)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_GetWord(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	query := "SELECT word_id, english, russian, created_at FROM words WHERE word_id = \\$1"
	mock.ExpectQuery(query).WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(wordColumns).AddRow(10, "cat", "кошка", time.Now()))
	mock.ExpectQuery(query).WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(wordColumns))

	word, err := repo.GetWord(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, "cat", word.English)

	missing, err := repo.GetWord(context.Background(), 11)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_AddWordForUser_NewWord(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO words").
		WithArgs("cat", "кошка").
		WillReturnRows(sqlmock.NewRows([]string{"word_id"}).AddRow(10))
	mock.ExpectExec("SAVEPOINT add_user_word").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO user_words").
		WithArgs(int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.AddWordForUser(context.Background(), 1, "cat", "кошка")

	assert.NoError(t, err)
	assert.Equal(t, domain.AddResultAdded, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_AddWordForUser_ExistingGlobalWord(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectBegin()
	// ON CONFLICT DO NOTHING returns no row when the term exists
	mock.ExpectQuery("INSERT INTO words").
		WithArgs("cat", "кот").
		WillReturnRows(sqlmock.NewRows([]string{"word_id"}))
	mock.ExpectQuery("SELECT word_id FROM words WHERE english = \\$1").
		WithArgs("cat").
		WillReturnRows(sqlmock.NewRows([]string{"word_id"}).AddRow(10))
	mock.ExpectExec("SAVEPOINT add_user_word").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO user_words").
		WithArgs(int64(2), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.AddWordForUser(context.Background(), 2, "cat", "кот")

	assert.NoError(t, err)
	assert.Equal(t, domain.AddResultAdded, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_AddWordForUser_AlreadyPresent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO words").
		WithArgs("cat", "кошка").
		WillReturnRows(sqlmock.NewRows([]string{"word_id"}))
	mock.ExpectQuery("SELECT word_id FROM words WHERE english = \\$1").
		WithArgs("cat").
		WillReturnRows(sqlmock.NewRows([]string{"word_id"}).AddRow(10))
	mock.ExpectExec("SAVEPOINT add_user_word").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO user_words").
		WithArgs(int64(1), int64(10)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "user_words_pkey"})
	mock.ExpectExec("ROLLBACK TO SAVEPOINT add_user_word").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result, err := repo.AddWordForUser(context.Background(), 1, "cat", "кошка")

	assert.NoError(t, err)
	assert.Equal(t, domain.AddResultAlreadyPresent, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_AddWordForUser_StorageError(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("no connection"))
			},
		},
		{
			name: "word insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO words").WillReturnError(fmt.Errorf("disk full"))
				mock.ExpectRollback()
			},
		},
		{
			name: "word lookup fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO words").WillReturnRows(sqlmock.NewRows([]string{"word_id"}))
				mock.ExpectQuery("SELECT word_id FROM words").WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
		},
		{
			name: "association insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO words").WillReturnRows(sqlmock.NewRows([]string{"word_id"}).AddRow(10))
				mock.ExpectExec("SAVEPOINT add_user_word").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO user_words").WillReturnError(&pq.Error{Code: "23503"})
				mock.ExpectRollback()
			},
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO words").WillReturnRows(sqlmock.NewRows([]string{"word_id"}).AddRow(10))
				mock.ExpectExec("SAVEPOINT add_user_word").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO user_words").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(fmt.Errorf("serialization failure"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)
			tt.setup(mock)

			result, err := repo.AddWordForUser(context.Background(), 1, "cat", "кошка")

			assert.ErrorIs(t, err, domain.ErrStorage)
			assert.Equal(t, domain.AddResult(0), result)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_RemoveWordForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectExec("DELETE FROM user_words WHERE user_id = \\$1 AND word_id = \\$2").
		WithArgs(int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.RemoveWordForUser(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_RemoveWordForUser_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectExec("DELETE FROM user_words").
		WithArgs(int64(1), int64(10)).
		WillReturnError(fmt.Errorf("exec error"))

	err = repo.RemoveWordForUser(context.Background(), 1, 10)

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_CountWordsForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM user_words WHERE user_id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	count, err := repo.CountWordsForUser(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 14, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListWordsForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	rows := sqlmock.NewRows([]string{"word_id", "english"}).
		AddRow(10, "cat").
		AddRow(11, "dog")

	mock.ExpectQuery("SELECT w.word_id, w.english FROM words w INNER JOIN user_words uw").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	words, err := repo.ListWordsForUser(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, []domain.WordRef{{WordID: 10, English: "cat"}, {WordID: 11, English: "dog"}}, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListWordsForUser_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	// Create rows with wrong column type to cause scan error
	rows := sqlmock.NewRows([]string{"word_id", "english"}).AddRow("invalid", "cat")

	mock.ExpectQuery("SELECT w.word_id, w.english FROM words w").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	words, err := repo.ListWordsForUser(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}
