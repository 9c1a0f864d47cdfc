package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/usecases"
)

func TestUserUsecase_CreateUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	uc := usecases.NewUserUsecase(userRepo, notifier)

	userRepo.On("GetByEmailAndRole", mock.Anything, "new@mindnamo.com", entities.UserRoleExpert).
		Return(nil, domainerrors.ErrNotFound).Once()
	userRepo.On("GetByUsername", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, domainerrors.ErrNotFound).Once()

	var created *entities.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).
		Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entities.User)
	}).Once()
	notifier.On("Send", mock.Anything, "new@mindnamo.com", mock.Anything, mock.Anything).
		Return("msg-1", nil).Once()

	creds, err := uc.CreateUser(context.Background(), &entities.CreateUserInput{
		Email: " New@MindNamo.com ",
		Role:  entities.UserRoleExpert,
	})
	assert.NoError(t, err)
	assert.Equal(t, "new@mindnamo.com", creds.Email)
	assert.NotEmpty(t, creds.Username)
	assert.NotEmpty(t, creds.TempPassword)
	assert.NotEmpty(t, creds.Name) // generated when omitted

	assert.NotNil(t, created)
	assert.True(t, created.ForcePasswordChange)
	assert.Equal(t, entities.SetupStateUnverified, created.SetupState)
	// only the hash is persisted
	assert.NotEqual(t, creds.TempPassword, created.PasswordHash)
	assert.NotEmpty(t, created.PasswordHash)
}

func TestUserUsecase_CreateUser_DuplicateEmailRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))

	userRepo.On("GetByEmailAndRole", mock.Anything, "dup@mindnamo.com", entities.UserRoleUser).
		Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := uc.CreateUser(context.Background(), &entities.CreateUserInput{
		Email: "dup@mindnamo.com",
		Role:  entities.UserRoleUser,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUserUsecase_CreateUser_InvalidRole(t *testing.T) {
	uc := usecases.NewUserUsecase(new(MockUserRepository), new(MockNotifier))
	_, err := uc.CreateUser(context.Background(), &entities.CreateUserInput{
		Email: "x@mindnamo.com",
		Role:  "superuser",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestUserUsecase_CreateUser_HandleRetriesExhausted(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))

	userRepo.On("GetByEmailAndRole", mock.Anything, "x@mindnamo.com", entities.UserRoleUser).
		Return(nil, domainerrors.ErrNotFound).Once()
	// every generated handle is already claimed
	userRepo.On("GetByUsername", mock.Anything, mock.AnythingOfType("string")).
		Return(&entities.User{ID: uuid.New()}, nil).Times(5)

	_, err := uc.CreateUser(context.Background(), &entities.CreateUserInput{
		Email: "x@mindnamo.com",
		Role:  entities.UserRoleUser,
	})
	assert.ErrorIs(t, err, domainerrors.ErrHandleTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUsecase_SetBanned(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))

	userRepo.On("SetBannedByEmail", mock.Anything, "dual@mindnamo.com", true).
		Return(int64(2), nil).Once()
	assert.NoError(t, uc.SetBanned(context.Background(), " Dual@MindNamo.com ", true))

	userRepo.On("SetBannedByEmail", mock.Anything, "ghost@mindnamo.com", true).
		Return(int64(0), nil).Once()
	assert.ErrorIs(t, uc.SetBanned(context.Background(), "ghost@mindnamo.com", true), domainerrors.ErrNotFound)
}

func TestUserUsecase_BulkSetBanned_NormalizesAndSkipsEmpty(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))

	userRepo.On("SetBannedByEmails", mock.Anything, []string{"a@mindnamo.com", "b@mindnamo.com"}, true).
		Return(int64(2), nil).Once()

	affected, err := uc.BulkSetBanned(context.Background(), []string{" A@MindNamo.com ", "", "b@mindnamo.com"}, true)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	_, err = uc.BulkSetBanned(context.Background(), []string{"", "  "}, true)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestUserUsecase_Delete_VerifiedGuard(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))
	id := uuid.New()

	userRepo.On("GetByID", mock.Anything, id).
		Return(&entities.User{ID: id, IsVerified: true}, nil).Once()

	err := uc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domainerrors.ErrDeleteVerified)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserUsecase_Delete_Unverified(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))
	id := uuid.New()

	userRepo.On("GetByID", mock.Anything, id).
		Return(&entities.User{ID: id, IsVerified: false}, nil).Once()
	userRepo.On("Delete", mock.Anything, id).Return(nil).Once()

	assert.NoError(t, uc.Delete(context.Background(), id))
	userRepo.AssertExpectations(t)
}

func TestUserUsecase_BulkDelete(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	userRepo.On("DeleteUnverified", mock.Anything, ids).Return(int64(1), nil).Once()

	deleted, err := uc.BulkDelete(context.Background(), ids)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = uc.BulkDelete(context.Background(), nil)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestUserUsecase_List_AppliesDefaults(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockNotifier))

	userRepo.On("List", mock.Anything, mock.MatchedBy(func(f entities.UserListFilter) bool {
		return f.Page == 1 && f.Limit == 25
	})).Return([]*entities.User{}, int64(0), nil).Once()

	_, _, err := uc.List(context.Background(), entities.UserListFilter{})
	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}
