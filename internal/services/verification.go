package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"sync"
	"time"

	"operateease/internal/models"
)

var (
	ErrCodeNotFound = errors.New("no verification code found")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("invalid verification code")
)

const codeTTL = 5 * time.Minute

// CodeStore holds pending verification codes keyed by email. The default
// implementation is process-local; a multi-instance deployment can swap in a
// shared cache behind the same interface.
type CodeStore interface {
	Get(email string) (models.VerificationCode, bool)
	Set(email string, code models.VerificationCode)
	Delete(email string)
}

type memoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]models.VerificationCode
}

func NewMemoryCodeStore() CodeStore {
	return &memoryCodeStore{codes: make(map[string]models.VerificationCode)}
}

func (s *memoryCodeStore) Get(email string) (models.VerificationCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[email]
	return c, ok
}

func (s *memoryCodeStore) Set(email string, code models.VerificationCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
}

func (s *memoryCodeStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
}

// VerificationService manages the one-time email code lifecycle. Expired
// entries are only rejected at lookup, never swept.
type VerificationService struct {
	store CodeStore
	now   func() time.Time
}

func NewVerificationService(store CodeStore) *VerificationService {
	return &VerificationService{
		store: store,
		now:   time.Now,
	}
}

// Request returns the active code for email. An unexpired code is reused
// as-is so repeated requests within the validity window are idempotent;
// otherwise a fresh 4-digit code valid for five minutes replaces whatever
// was stored.
func (s *VerificationService) Request(email string) (code string, reused bool, err error) {
	now := s.now()

	if existing, ok := s.store.Get(email); ok && now.Before(existing.ExpiresAt) {
		return existing.Code, true, nil
	}

	code, err = generateCode()
	if err != nil {
		return "", false, err
	}

	s.store.Set(email, models.VerificationCode{
		Code:      code,
		ExpiresAt: now.Add(codeTTL),
	})
	return code, false, nil
}

// Verify consumes the pending code for email. A correct submission deletes
// the record, so a code is accepted at most once. An expired record is also
// deleted so later lookups report NotFound rather than Expired.
func (s *VerificationService) Verify(email, submitted string) error {
	record, ok := s.store.Get(email)
	if !ok {
		return ErrCodeNotFound
	}

	if s.now().After(record.ExpiresAt) {
		s.store.Delete(email)
		return ErrCodeExpired
	}

	if record.Code != submitted {
		return ErrCodeMismatch
	}

	s.store.Delete(email)
	return nil
}

// generateCode picks a decimal code in [1000, 9999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(1000+n.Int64(), 10), nil
}
