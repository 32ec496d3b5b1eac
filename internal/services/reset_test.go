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

func TestResetService_Request(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockTokens := services.NewMockResetTokenStore(ctrl)
	mockEmailer := services.NewMockResetEmailer(ctrl)

	svc := services.NewResetService(mockReader, mockWriter, mockTokens, mockEmailer)

	t.Run("known email gets a token and an email", func(t *testing.T) {
		var savedToken string
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "john@example.com").
			Return(&models.UserDB{ID: 42, Email: "john@example.com"}, nil)
		mockTokens.EXPECT().
			Save(gomock.Any(), gomock.Any(), int64(42)).
			DoAndReturn(func(_ context.Context, token string, _ int64) error {
				savedToken = token
				return nil
			})
		mockEmailer.EXPECT().
			SendPasswordReset(gomock.Any(), "john@example.com", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, token string) error {
				assert.Equal(t, savedToken, token)
				return nil
			})

		err := svc.Request(context.Background(), "john@example.com")
		assert.NoError(t, err)
		assert.NotEmpty(t, savedToken)
	})

	t.Run("unknown email is not an error", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, nil)

		err := svc.Request(context.Background(), "nobody@example.com")
		assert.NoError(t, err)
	})

	t.Run("email failure does not fail the request", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "john@example.com").
			Return(&models.UserDB{ID: 42, Email: "john@example.com"}, nil)
		mockTokens.EXPECT().
			Save(gomock.Any(), gomock.Any(), int64(42)).
			Return(nil)
		mockEmailer.EXPECT().
			SendPasswordReset(gomock.Any(), "john@example.com", gomock.Any()).
			Return(errors.New("smtp down"))

		err := svc.Request(context.Background(), "john@example.com")
		assert.NoError(t, err)
	})

	t.Run("token store failure", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "john@example.com").
			Return(&models.UserDB{ID: 42, Email: "john@example.com"}, nil)
		mockTokens.EXPECT().
			Save(gomock.Any(), gomock.Any(), int64(42)).
			Return(errors.New("redis down"))

		err := svc.Request(context.Background(), "john@example.com")
		assert.EqualError(t, err, "redis down")
	})
}

func TestResetService_Confirm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockTokens := services.NewMockResetTokenStore(ctrl)
	mockEmailer := services.NewMockResetEmailer(ctrl)

	svc := services.NewResetService(mockReader, mockWriter, mockTokens, mockEmailer)

	t.Run("successful confirm stores a new hash", func(t *testing.T) {
		mockTokens.EXPECT().
			Consume(gomock.Any(), "tok-1").
			Return(int64(42), nil)
		mockWriter.EXPECT().
			UpdatePassword(gomock.Any(), int64(42), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, hashedPassword string) (int64, error) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte("evenmoresecret")))
				return int64(1), nil
			})

		err := svc.Confirm(context.Background(), "tok-1", "evenmoresecret")
		assert.NoError(t, err)
	})

	t.Run("unknown or expired token", func(t *testing.T) {
		mockTokens.EXPECT().
			Consume(gomock.Any(), "expired").
			Return(int64(0), repositories.ErrResetTokenNotFound)

		err := svc.Confirm(context.Background(), "expired", "evenmoresecret")
		assert.ErrorIs(t, err, services.ErrResetTokenInvalid)
	})

	t.Run("user deleted after request", func(t *testing.T) {
		mockTokens.EXPECT().
			Consume(gomock.Any(), "tok-1").
			Return(int64(99), nil)
		mockWriter.EXPECT().
			UpdatePassword(gomock.Any(), int64(99), gomock.Any()).
			Return(int64(0), nil)

		err := svc.Confirm(context.Background(), "tok-1", "evenmoresecret")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}
