package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(start time.Time) (*VerificationService, *time.Time) {
	clock := start
	svc := NewVerificationService(NewMemoryCodeStore())
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestRequestGeneratesFourDigitCode(t *testing.T) {
	svc, _ := newTestService(time.Now())

	code, reused, err := svc.Request("a@x.com")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Len(t, code, 4)
	assert.GreaterOrEqual(t, code, "1000")
	assert.LessOrEqual(t, code, "9999")
}

func TestRequestReusesUnexpiredCode(t *testing.T) {
	svc, clock := newTestService(time.Now())

	first, _, err := svc.Request("a@x.com")
	require.NoError(t, err)

	*clock = clock.Add(4 * time.Minute)

	second, reused, err := svc.Request("a@x.com")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first, second)
}

func TestRequestReplacesExpiredCode(t *testing.T) {
	svc, clock := newTestService(time.Now())

	_, _, err := svc.Request("a@x.com")
	require.NoError(t, err)

	*clock = clock.Add(6 * time.Minute)

	_, reused, err := svc.Request("a@x.com")
	require.NoError(t, err)
	assert.False(t, reused)
}

func TestVerifyConsumesCode(t *testing.T) {
	svc, _ := newTestService(time.Now())

	code, _, err := svc.Request("a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.Verify("a@x.com", code))

	// Accepted at most once.
	assert.ErrorIs(t, svc.Verify("a@x.com", code), ErrCodeNotFound)
}

func TestVerifyMismatchKeepsCode(t *testing.T) {
	svc, _ := newTestService(time.Now())

	code, _, err := svc.Request("a@x.com")
	require.NoError(t, err)

	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	assert.ErrorIs(t, svc.Verify("a@x.com", wrong), ErrCodeMismatch)

	// The real code still works after a bad attempt.
	assert.NoError(t, svc.Verify("a@x.com", code))
}

func TestVerifyExpiredDeletesRecord(t *testing.T) {
	svc, clock := newTestService(time.Now())

	code, _, err := svc.Request("a@x.com")
	require.NoError(t, err)

	*clock = clock.Add(5*time.Minute + time.Second)

	assert.ErrorIs(t, svc.Verify("a@x.com", code), ErrCodeExpired)
	assert.ErrorIs(t, svc.Verify("a@x.com", code), ErrCodeNotFound)
}

func TestVerifyUnknownEmail(t *testing.T) {
	svc, _ := newTestService(time.Now())

	assert.ErrorIs(t, svc.Verify("nobody@x.com", "1234"), ErrCodeNotFound)
}

func TestRequestAfterVerifyIssuesNewCode(t *testing.T) {
	svc, _ := newTestService(time.Now())

	code, _, err := svc.Request("a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.Verify("a@x.com", code))

	_, reused, err := svc.Request("a@x.com")
	require.NoError(t, err)
	assert.False(t, reused)
}
