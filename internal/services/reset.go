package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/repositories"
)

// ErrResetTokenInvalid is returned when a reset token is unknown, expired
// or already used.
var ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

// ResetTokenStore holds one-shot reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID int64) error
	Consume(ctx context.Context, token string) (int64, error)
}

// ResetEmailer sends the password-reset email.
type ResetEmailer interface {
	SendPasswordReset(ctx context.Context, toEmail, token string) error
}

// ResetService implements the password-reset flow: an opaque token is
// stored with a TTL and mailed to the account owner, then exchanged once
// for a password update.
type ResetService struct {
	reader  UserReader
	writer  UserWriter
	tokens  ResetTokenStore
	emailer ResetEmailer
}

// NewResetService creates a new ResetService.
func NewResetService(reader UserReader, writer UserWriter, tokens ResetTokenStore, emailer ResetEmailer) *ResetService {
	return &ResetService{
		reader:  reader,
		writer:  writer,
		tokens:  tokens,
		emailer: emailer,
	}
}

// Request generates and mails a reset token for the account with the given
// email. An unknown email is not an error: the caller responds identically
// either way, so the endpoint is not an account-existence oracle.
func (svc *ResetService) Request(ctx context.Context, email string) error {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user for reset", "err", err)
		return err
	}
	if user == nil {
		logger.Log.Infow("reset requested for unknown email", "email", email)
		return nil
	}

	token := uuid.New().String()
	if err := svc.tokens.Save(ctx, token, user.ID); err != nil {
		logger.Log.Errorw("failed to save reset token", "err", err)
		return err
	}

	if svc.emailer != nil {
		if err := svc.emailer.SendPasswordReset(ctx, user.Email, token); err != nil {
			logger.Log.Errorw("failed to send reset email", "email", user.Email, "err", err)
		}
	}

	return nil
}

// Confirm exchanges a token for a password update. The token is consumed
// even if the subsequent update fails, so it can never be replayed.
func (svc *ResetService) Confirm(ctx context.Context, token, newPassword string) error {
	userID, err := svc.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrResetTokenNotFound) {
			return ErrResetTokenInvalid
		}
		logger.Log.Errorw("failed to consume reset token", "err", err)
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	rows, err := svc.writer.UpdatePassword(ctx, userID, string(hashedPassword))
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
