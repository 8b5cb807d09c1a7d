package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"englishcard/internal/domain"
)

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// PickRandomWord returns a random word for the user.
// The pool is the user's own words plus every word they don't have yet,
// sampled uniformly with no weighting between the two.
func (r *WordRepo) PickRandomWord(ctx context.Context, userID int64) (*domain.Word, error) {
	var w domain.Word
	query := `
		SELECT w.word_id, w.english, w.russian, w.created_at
		FROM words w
		LEFT JOIN user_words uw ON uw.word_id = w.word_id AND uw.user_id = $1
		ORDER BY RANDOM()
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&w.ID, &w.English, &w.Russian, &w.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: pick random word: %w", domain.ErrStorage, err)
	}

	return &w, nil
}

// GetWord returns a word by ID, nil if it doesn't exist
func (r *WordRepo) GetWord(ctx context.Context, wordID int64) (*domain.Word, error) {
	var w domain.Word
	query := `SELECT word_id, english, russian, created_at FROM words WHERE word_id = $1`
	err := r.db.QueryRowContext(ctx, query, wordID).Scan(&w.ID, &w.English, &w.Russian, &w.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get word: %w", domain.ErrStorage, err)
	}

	return &w, nil
}

// AddWordForUser stores the word globally (once per English term) and links
// it to the user. The user_words primary key decides concurrent adds: the
// loser gets AddResultAlreadyPresent and only its association insert is
// rolled back, the global word stays.
func (r *WordRepo) AddWordForUser(ctx context.Context, userID int64, english, russian string) (result domain.AddResult, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %w", domain.ErrStorage, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	wordID, err := ensureWord(ctx, tx, english, russian)
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `SAVEPOINT add_user_word`); err != nil {
		return 0, fmt.Errorf("%w: savepoint: %w", domain.ErrStorage, err)
	}

	result = domain.AddResultAdded
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_words (user_id, word_id, added_by_user)
		VALUES ($1, $2, TRUE)
	`, userID, wordID)
	if isUniqueViolation(err) {
		if _, err = tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT add_user_word`); err != nil {
			return 0, fmt.Errorf("%w: rollback to savepoint: %w", domain.ErrStorage, err)
		}
		result = domain.AddResultAlreadyPresent
	} else if err != nil {
		return 0, fmt.Errorf("%w: link word to user: %w", domain.ErrStorage, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", domain.ErrStorage, err)
	}

	return result, nil
}

// ensureWord returns the ID of the word with the given English term,
// inserting it first if no user has added it yet
func ensureWord(ctx context.Context, tx *sql.Tx, english, russian string) (int64, error) {
	var wordID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO words (english, russian)
		VALUES ($1, $2)
		ON CONFLICT (english) DO NOTHING
		RETURNING word_id
	`, english, russian).Scan(&wordID)
	if err == nil {
		return wordID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: insert word: %w", domain.ErrStorage, err)
	}

	// Someone else owns the term already
	err = tx.QueryRowContext(ctx, `SELECT word_id FROM words WHERE english = $1`, english).Scan(&wordID)
	if err != nil {
		return 0, fmt.Errorf("%w: find word: %w", domain.ErrStorage, err)
	}
	return wordID, nil
}

// RemoveWordForUser unlinks a word from the user. The word itself is kept.
func (r *WordRepo) RemoveWordForUser(ctx context.Context, userID, wordID int64) error {
	query := `DELETE FROM user_words WHERE user_id = $1 AND word_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, wordID); err != nil {
		return fmt.Errorf("%w: remove word: %w", domain.ErrStorage, err)
	}
	return nil
}

// CountWordsForUser returns how many words the user studies
func (r *WordRepo) CountWordsForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_words WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count words: %w", domain.ErrStorage, err)
	}
	return count, nil
}

// ListWordsForUser returns the user's words in the order they were added
func (r *WordRepo) ListWordsForUser(ctx context.Context, userID int64) ([]domain.WordRef, error) {
	query := `
		SELECT w.word_id, w.english
		FROM words w
		INNER JOIN user_words uw ON w.word_id = uw.word_id
		WHERE uw.user_id = $1
		ORDER BY uw.created_at, w.word_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list words: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var words []domain.WordRef
	for rows.Next() {
		var w domain.WordRef
		if err := rows.Scan(&w.WordID, &w.English); err != nil {
			return nil, fmt.Errorf("%w: scan word: %w", domain.ErrStorage, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list words: %w", domain.ErrStorage, err)
	}

	return words, nil
}
