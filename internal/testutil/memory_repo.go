package testutil

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"englishcard/internal/domain"
)

// MemoryRepository is an in-memory UserRepository and WordRepository with
// the same uniqueness rules as the PostgreSQL schema. Failures can be
// injected through Fail.
type MemoryRepository struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	words     []*domain.Word
	userWords map[int64][]domain.UserWord
	nextUser  int64
	rnd       *rand.Rand

	// Fail, when set, is consulted before every operation; a non-nil
	// return is used as the operation's error
	Fail func(op string) error
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository(seed int64) *MemoryRepository {
	return &MemoryRepository{
		users:     make(map[int64]*domain.User),
		userWords: make(map[int64][]domain.UserWord),
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

func (r *MemoryRepository) fail(op string) error {
	if r.Fail == nil {
		return nil
	}
	return r.Fail(op)
}

// SeedWords adds global words without any association
func (r *MemoryRepository) SeedWords(pairs ...[2]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pairs {
		r.ensureWord(p[0], p[1])
	}
}

// WordCount returns the number of global words
func (r *MemoryRepository) WordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.words)
}

func (r *MemoryRepository) FindUser(_ context.Context, telegramID int64) (*domain.User, error) {
	if err := r.fail("FindUser"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[telegramID]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := r.fail("CreateUser"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.TelegramID]; ok {
		return nil, domain.ErrStorageConflict
	}
	r.nextUser++
	created := *user
	created.ID = r.nextUser
	created.CreatedAt = time.Now()
	r.users[user.TelegramID] = &created

	c := created
	return &c, nil
}

func (r *MemoryRepository) PickRandomWord(_ context.Context, _ int64) (*domain.Word, error) {
	if err := r.fail("PickRandomWord"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.words) == 0 {
		return nil, nil
	}
	w := *r.words[r.rnd.Intn(len(r.words))]
	return &w, nil
}

func (r *MemoryRepository) GetWord(_ context.Context, wordID int64) (*domain.Word, error) {
	if err := r.fail("GetWord"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.words {
		if w.ID == wordID {
			c := *w
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) AddWordForUser(_ context.Context, userID int64, english, russian string) (domain.AddResult, error) {
	if err := r.fail("AddWordForUser"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	word := r.ensureWord(english, russian)
	for _, uw := range r.userWords[userID] {
		if uw.WordID == word.ID {
			return domain.AddResultAlreadyPresent, nil
		}
	}
	r.userWords[userID] = append(r.userWords[userID], domain.UserWord{
		UserID:      userID,
		WordID:      word.ID,
		AddedByUser: true,
		CreatedAt:   time.Now(),
	})
	return domain.AddResultAdded, nil
}

func (r *MemoryRepository) RemoveWordForUser(_ context.Context, userID, wordID int64) error {
	if err := r.fail("RemoveWordForUser"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.userWords[userID][:0]
	for _, uw := range r.userWords[userID] {
		if uw.WordID != wordID {
			kept = append(kept, uw)
		}
	}
	r.userWords[userID] = kept
	return nil
}

func (r *MemoryRepository) CountWordsForUser(_ context.Context, userID int64) (int, error) {
	if err := r.fail("CountWordsForUser"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.userWords[userID]), nil
}

func (r *MemoryRepository) ListWordsForUser(_ context.Context, userID int64) ([]domain.WordRef, error) {
	if err := r.fail("ListWordsForUser"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var refs []domain.WordRef
	for _, uw := range r.userWords[userID] {
		for _, w := range r.words {
			if w.ID == uw.WordID {
				refs = append(refs, domain.WordRef{WordID: w.ID, English: w.English})
			}
		}
	}
	return refs, nil
}

func (r *MemoryRepository) ensureWord(english, russian string) *domain.Word {
	for _, w := range r.words {
		if w.English == english {
			return w
		}
	}
	w := &domain.Word{
		ID:        int64(len(r.words) + 1),
		English:   english,
		Russian:   russian,
		CreatedAt: time.Now(),
	}
	r.words = append(r.words, w)
	return w
}
