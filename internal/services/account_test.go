package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecom-backend/user-service/internal/models"
	"github.com/ecom-backend/user-service/internal/repositories"
	"github.com/ecom-backend/user-service/internal/services"
)

func TestAccountService_SignUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)
	mockEmailer := services.NewMockWelcomeEmailer(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, mockEmailer, nil)

	t.Run("successful signup hashes the password", func(t *testing.T) {
		var storedHash string
		mockWriter.EXPECT().
			Save(gomock.Any(), "John", "Doe", "john@example.com", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, _, hashedPassword string) (int64, error) {
				storedHash = hashedPassword
				return int64(1), nil
			})
		mockJWT.EXPECT().
			Generate(gomock.Any(), int64(1), "john@example.com").
			Return("token123", nil)
		mockEmailer.EXPECT().
			SendWelcome(gomock.Any(), "john@example.com", "John", "Doe").
			Return(nil)

		id, token, err := svc.SignUp(context.Background(), "John", "Doe", "john@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, "token123", token)

		assert.NotEqual(t, "secret123", storedHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret123")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockWriter.EXPECT().
			Save(gomock.Any(), "Alice", "Smith", "alice@example.com", gomock.Any()).
			Return(int64(0), repositories.ErrDuplicateEmail)

		_, _, err := svc.SignUp(context.Background(), "Alice", "Smith", "alice@example.com", "pass")
		assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
	})

	t.Run("writer error", func(t *testing.T) {
		mockWriter.EXPECT().
			Save(gomock.Any(), "Bob", "Brown", "bob@example.com", gomock.Any()).
			Return(int64(0), errors.New("db error"))

		_, _, err := svc.SignUp(context.Background(), "Bob", "Brown", "bob@example.com", "pass")
		assert.EqualError(t, err, "db error")
	})

	t.Run("welcome email failure does not fail the signup", func(t *testing.T) {
		mockWriter.EXPECT().
			Save(gomock.Any(), "John", "Doe", "john@example.com", gomock.Any()).
			Return(int64(2), nil)
		mockJWT.EXPECT().
			Generate(gomock.Any(), int64(2), "john@example.com").
			Return("token456", nil)
		mockEmailer.EXPECT().
			SendWelcome(gomock.Any(), "john@example.com", "John", "Doe").
			Return(errors.New("smtp down"))

		id, token, err := svc.SignUp(context.Background(), "John", "Doe", "john@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), id)
		assert.Equal(t, "token456", token)
	})
}

func TestAccountService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	stored := &models.UserDB{
		ID:       42,
		Email:    "john@example.com",
		Password: string(hash),
	}

	t.Run("successful login", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "john@example.com").
			Return(stored, nil)
		mockJWT.EXPECT().
			Generate(gomock.Any(), int64(42), "").
			Return("token123", nil)

		user, token, err := svc.Login(context.Background(), "john@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "token123", token)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, nil)

		_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("wrong password maps to the same error", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "john@example.com").
			Return(stored, nil)

		_, _, err := svc.Login(context.Background(), "john@example.com", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("reader error", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "john@example.com").
			Return(nil, errors.New("db error"))

		_, _, err := svc.Login(context.Background(), "john@example.com", "secret123")
		assert.EqualError(t, err, "db error")
	})
}

func TestAccountService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, nil)

	t.Run("found", func(t *testing.T) {
		mockReader.EXPECT().
			GetByID(gomock.Any(), int64(7)).
			Return(&models.UserDB{ID: 7}, nil)

		user, err := svc.GetByID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockReader.EXPECT().
			GetByID(gomock.Any(), int64(99)).
			Return(nil, nil)

		_, err := svc.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestAccountService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, nil)

	users := []models.UserDB{{ID: 6}, {ID: 7}}

	t.Run("page translates to limit and offset", func(t *testing.T) {
		mockReader.EXPECT().
			List(gomock.Any(), 5, 5, "Active").
			Return(users, nil)
		mockReader.EXPECT().
			Count(gomock.Any(), "Active").
			Return(int64(12), nil)

		got, total, err := svc.List(context.Background(), 2, 5, "Active")
		assert.NoError(t, err)
		assert.Equal(t, users, got)
		assert.Equal(t, int64(12), total)
	})

	t.Run("first page starts at offset zero", func(t *testing.T) {
		mockReader.EXPECT().
			List(gomock.Any(), 20, 0, "").
			Return(nil, nil)
		mockReader.EXPECT().
			Count(gomock.Any(), "").
			Return(int64(0), nil)

		got, total, err := svc.List(context.Background(), 1, 20, "")
		assert.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, total)
	})

	t.Run("list error", func(t *testing.T) {
		mockReader.EXPECT().
			List(gomock.Any(), 20, 0, "").
			Return(nil, errors.New("db error"))

		_, _, err := svc.List(context.Background(), 1, 20, "")
		assert.EqualError(t, err, "db error")
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, nil)

	current := &models.UserDB{
		ID:          42,
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "555-0100",
		DateOfBirth: "1990-01-01",
		Gender:      "male",
	}

	t.Run("empty fields keep stored values", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), int64(42), "Johnny", "Doe", "555-0100", "1990-01-01", "male").
			Return(int64(1), nil)

		err := svc.UpdateProfile(context.Background(), current, "Johnny", "", "", "", "")
		assert.NoError(t, err)
	})

	t.Run("all fields supplied", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), int64(42), "Jane", "Smith", "555-0199", "1991-02-02", "female").
			Return(int64(1), nil)

		err := svc.UpdateProfile(context.Background(), current, "Jane", "Smith", "555-0199", "1991-02-02", "female")
		assert.NoError(t, err)
	})

	t.Run("zero rows", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), int64(42), "John", "Doe", "555-0100", "1990-01-01", "male").
			Return(int64(0), nil)

		err := svc.UpdateProfile(context.Background(), current, "", "", "", "", "")
		assert.ErrorIs(t, err, services.ErrNothingUpdated)
	})
}

func TestAccountService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, mockKafka)

	t.Run("success publishes an event", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateStatus(gomock.Any(), int64(7), "Suspended").
			Return(int64(1), nil)
		mockKafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.UpdateStatus(context.Background(), 7, "Suspended")
		assert.NoError(t, err)
	})

	t.Run("publish failure does not fail the update", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateStatus(gomock.Any(), int64(7), "Active").
			Return(int64(1), nil)
		mockKafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(errors.New("broker down"))

		err := svc.UpdateStatus(context.Background(), 7, "Active")
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateStatus(gomock.Any(), int64(99), "Banned").
			Return(int64(0), nil)

		err := svc.UpdateStatus(context.Background(), 99, "Banned")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	stored := &models.UserDB{ID: 42, Password: string(hash)}

	t.Run("successful change stores a new hash", func(t *testing.T) {
		mockReader.EXPECT().
			GetByID(gomock.Any(), int64(42)).
			Return(stored, nil)
		mockWriter.EXPECT().
			UpdatePassword(gomock.Any(), int64(42), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, hashedPassword string) (int64, error) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte("evenmoresecret")))
				return int64(1), nil
			})

		err := svc.ChangePassword(context.Background(), 42, "secret123", "evenmoresecret")
		assert.NoError(t, err)
	})

	t.Run("old password mismatch", func(t *testing.T) {
		mockReader.EXPECT().
			GetByID(gomock.Any(), int64(42)).
			Return(stored, nil)

		err := svc.ChangePassword(context.Background(), 42, "wrong", "evenmoresecret")
		assert.ErrorIs(t, err, services.ErrPasswordMismatch)
	})

	t.Run("user gone", func(t *testing.T) {
		mockReader.EXPECT().
			GetByID(gomock.Any(), int64(99)).
			Return(nil, nil)

		err := svc.ChangePassword(context.Background(), 99, "secret123", "evenmoresecret")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestAccountService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewAccountService(mockReader, mockWriter, mockJWT, nil, mockKafka)

	t.Run("success", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), int64(7)).
			Return(int64(1), nil)
		mockKafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(context.Background(), 7)
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), int64(99)).
			Return(int64(0), nil)

		err := svc.Delete(context.Background(), 99)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}
