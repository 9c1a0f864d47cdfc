package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/pkg/redis"
)

// userRepoStub implements repositories.UserRepository with overridable
// function fields. Unset fields fall back to empty results so each test
// only wires the calls it exercises.
type userRepoStub struct {
	createFn            func(ctx context.Context, user *entities.User) error
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*entities.User, error)
	getByEmailAndRoleFn func(ctx context.Context, email string, role entities.UserRole) (*entities.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*entities.User, error)
	getSecretsFn        func(ctx context.Context, id uuid.UUID) (*repositories.ChallengeSecrets, error)
	setChallengeFn      func(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error
	consumeChallengeFn  func(ctx context.Context, id uuid.UUID, code string) (bool, error)
	clearExpiredFn      func(ctx context.Context, now time.Time) (int64, error)
	updateProfileFn     func(ctx context.Context, id uuid.UUID, name, username, photo string) error
	unlockFn            func(ctx context.Context, id uuid.UUID, passwordHash string) error
	listFn              func(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error)
	countByRoleFn       func(ctx context.Context, role entities.UserRole) (int64, error)
	countBeforeFn       func(ctx context.Context, role entities.UserRole, cutoff time.Time) (int64, error)
	setBannedByEmailFn  func(ctx context.Context, email string, banned bool) (int64, error)
	setBannedByEmailsFn func(ctx context.Context, emails []string, banned bool) (int64, error)
	deleteFn            func(ctx context.Context, id uuid.UUID) error
	deleteUnverifiedFn  func(ctx context.Context, ids []uuid.UUID) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *entities.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, user)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if s.getByIDFn == nil {
		return nil, domainerrors.ErrNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByEmailAndRole(ctx context.Context, email string, role entities.UserRole) (*entities.User, error) {
	if s.getByEmailAndRoleFn == nil {
		return nil, domainerrors.ErrNotFound
	}
	return s.getByEmailAndRoleFn(ctx, email, role)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	if s.getByUsernameFn == nil {
		return nil, domainerrors.ErrNotFound
	}
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) GetSecrets(ctx context.Context, id uuid.UUID) (*repositories.ChallengeSecrets, error) {
	if s.getSecretsFn == nil {
		return nil, domainerrors.ErrNotFound
	}
	return s.getSecretsFn(ctx, id)
}

func (s *userRepoStub) SetChallenge(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error {
	if s.setChallengeFn == nil {
		return nil
	}
	return s.setChallengeFn(ctx, id, code, expiry)
}

func (s *userRepoStub) ConsumeChallenge(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	if s.consumeChallengeFn == nil {
		return true, nil
	}
	return s.consumeChallengeFn(ctx, id, code)
}

func (s *userRepoStub) ClearExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	if s.clearExpiredFn == nil {
		return 0, nil
	}
	return s.clearExpiredFn(ctx, now)
}

func (s *userRepoStub) UpdateProfile(ctx context.Context, id uuid.UUID, name, username, photo string) error {
	if s.updateProfileFn == nil {
		return nil
	}
	return s.updateProfileFn(ctx, id, name, username, photo)
}

func (s *userRepoStub) Unlock(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if s.unlockFn == nil {
		return nil
	}
	return s.unlockFn(ctx, id, passwordHash)
}

func (s *userRepoStub) List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, filter)
}

func (s *userRepoStub) CountByRole(ctx context.Context, role entities.UserRole) (int64, error) {
	if s.countByRoleFn == nil {
		return 0, nil
	}
	return s.countByRoleFn(ctx, role)
}

func (s *userRepoStub) CountByRoleCreatedBefore(ctx context.Context, role entities.UserRole, cutoff time.Time) (int64, error) {
	if s.countBeforeFn == nil {
		return 0, nil
	}
	return s.countBeforeFn(ctx, role, cutoff)
}

func (s *userRepoStub) SetBannedByEmail(ctx context.Context, email string, banned bool) (int64, error) {
	if s.setBannedByEmailFn == nil {
		return 1, nil
	}
	return s.setBannedByEmailFn(ctx, email, banned)
}

func (s *userRepoStub) SetBannedByEmails(ctx context.Context, emails []string, banned bool) (int64, error) {
	if s.setBannedByEmailsFn == nil {
		return int64(len(emails)), nil
	}
	return s.setBannedByEmailsFn(ctx, emails, banned)
}

func (s *userRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s *userRepoStub) DeleteUnverified(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if s.deleteUnverifiedFn == nil {
		return int64(len(ids)), nil
	}
	return s.deleteUnverifiedFn(ctx, ids)
}

type expertRepoStub struct {
	countPendingFn func(ctx context.Context) (int64, error)
}

func (s *expertRepoStub) CountPendingVerification(ctx context.Context) (int64, error) {
	if s.countPendingFn == nil {
		return 0, nil
	}
	return s.countPendingFn(ctx)
}

type paymentRepoStub struct {
	listUnsettledFn func(ctx context.Context) ([]*entities.Payment, error)
	sumSinceFn      func(ctx context.Context, since time.Time) (float64, error)
}

func (s *paymentRepoStub) ListUnsettledCompleted(ctx context.Context) ([]*entities.Payment, error) {
	if s.listUnsettledFn == nil {
		return nil, nil
	}
	return s.listUnsettledFn(ctx)
}

func (s *paymentRepoStub) SumCompletedCreatedSince(ctx context.Context, since time.Time) (float64, error) {
	if s.sumSinceFn == nil {
		return 0, nil
	}
	return s.sumSinceFn(ctx, since)
}

type appointmentRepoStub struct {
	listRefundableFn func(ctx context.Context) ([]*entities.Appointment, error)
}

func (s *appointmentRepoStub) ListRefundable(ctx context.Context) ([]*entities.Appointment, error) {
	if s.listRefundableFn == nil {
		return nil, nil
	}
	return s.listRefundableFn(ctx)
}

type notifierStub struct {
	sent []struct{ to, subject, body string }
	err  error
}

func (s *notifierStub) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	s.sent = append(s.sent, struct{ to, subject, body string }{to, subject, htmlBody})
	if s.err != nil {
		return "", s.err
	}
	return "queued", nil
}

type limiterStub struct {
	allowed bool
}

func (s limiterStub) Limit(context.Context, string) redis.LimitResult {
	return redis.LimitResult{Success: s.allowed, ResetAt: time.Now().Add(time.Minute)}
}

func performJSON(r *gin.Engine, method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
