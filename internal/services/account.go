package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/models"
	"github.com/ecom-backend/user-service/internal/repositories"
)

// Error variables
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("email and password is not correct")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("old password does not match")
	ErrNothingUpdated     = errors.New("update affected no rows")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	List(ctx context.Context, limit, offset int, status string) ([]models.UserDB, error)
	Count(ctx context.Context, status string) (int64, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, firstName, lastName, email, hashedPassword string) (int64, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, phoneNumber, dateOfBirth, gender string) (int64, error)
	UpdatePicture(ctx context.Context, id int64, pictureURL string) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// TokenGenerator defines an interface for issuing bearer tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID int64, email string) (string, error)
}

// WelcomeEmailer sends the post-signup welcome email.
type WelcomeEmailer interface {
	SendWelcome(ctx context.Context, toEmail, firstName, lastName string) error
}

// KafkaWriter defines a kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AccountService implements the account operations: signup, login, listing,
// profile and status updates, password change and delete.
type AccountService struct {
	reader      UserReader
	writer      UserWriter
	jwt         TokenGenerator
	emailer     WelcomeEmailer
	kafkaWriter KafkaWriter
}

// NewAccountService creates a new AccountService. emailer and kafkaWriter
// may be nil; the corresponding side effects are then skipped.
func NewAccountService(reader UserReader, writer UserWriter, jwt TokenGenerator, emailer WelcomeEmailer, kafkaWriter KafkaWriter) *AccountService {
	return &AccountService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		emailer:     emailer,
		kafkaWriter: kafkaWriter,
	}
}

// SignUp creates an account and returns its id and a bearer token carrying
// the id and email. Email uniqueness is enforced by the store constraint.
// The welcome email is sent inline; a failure is logged and does not fail
// the signup.
func (svc *AccountService) SignUp(ctx context.Context, firstName, lastName, email, password string) (int64, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return 0, "", err
	}

	id, err := svc.writer.Save(ctx, firstName, lastName, email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			logger.Log.Errorw("email already exists", "email", email)
			return 0, "", ErrEmailAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return 0, "", err
	}

	token, err := svc.jwt.Generate(ctx, id, email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return 0, "", err
	}

	if svc.emailer != nil {
		if err := svc.emailer.SendWelcome(ctx, email, firstName, lastName); err != nil {
			logger.Log.Errorw("failed to send welcome email", "email", email, "err", err)
		}
	}

	svc.publishEvent(ctx, models.AccountEvent{
		Event:  models.EventUserRegistered,
		UserID: id,
		Email:  email,
	})

	return id, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password both map to ErrInvalidCredentials so the response does not
// reveal which one failed. The returned token carries the id only.
func (svc *AccountService) Login(ctx context.Context, email, password string) (*models.UserDB, string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Errorw("login for unknown email", "email", email)
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.ID, "")
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

// GetByID returns a single user.
func (svc *AccountService) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns a page of users plus the total count matching the filter.
// An empty page is a successful result.
func (svc *AccountService) List(ctx context.Context, page, limit int, status string) ([]models.UserDB, int64, error) {
	offset := (page - 1) * limit

	users, err := svc.reader.List(ctx, limit, offset, status)
	if err != nil {
		return nil, 0, err
	}

	total, err := svc.reader.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateProfile updates the profile columns of current. Each empty field
// falls back to the value already stored, so a partial payload never blanks
// unspecified fields. An explicit empty string is indistinguishable from an
// omitted field and also falls back.
func (svc *AccountService) UpdateProfile(ctx context.Context, current *models.UserDB, firstName, lastName, phoneNumber, dateOfBirth, gender string) error {
	rows, err := svc.writer.UpdateProfile(ctx, current.ID,
		coalesce(firstName, current.FirstName),
		coalesce(lastName, current.LastName),
		coalesce(phoneNumber, current.PhoneNumber),
		coalesce(dateOfBirth, current.DateOfBirth),
		coalesce(gender, current.Gender),
	)
	if err != nil {
		logger.Log.Errorw("failed to update user", "id", current.ID, "err", err)
		return err
	}
	if rows == 0 {
		return ErrNothingUpdated
	}
	return nil
}

// UpdatePicture stores the derived URL of an uploaded profile picture.
func (svc *AccountService) UpdatePicture(ctx context.Context, id int64, pictureURL string) error {
	rows, err := svc.writer.UpdatePicture(ctx, id, pictureURL)
	if err != nil {
		logger.Log.Errorw("failed to update picture", "id", id, "err", err)
		return err
	}
	if rows == 0 {
		return ErrNothingUpdated
	}
	return nil
}

// UpdateStatus sets the free-form status of the target user.
func (svc *AccountService) UpdateStatus(ctx context.Context, id int64, status string) error {
	rows, err := svc.writer.UpdateStatus(ctx, id, status)
	if err != nil {
		logger.Log.Errorw("failed to update status", "id", id, "err", err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	svc.publishEvent(ctx, models.AccountEvent{
		Event:  models.EventUserStatusChanged,
		UserID: id,
		Status: status,
	})

	return nil
}

// ChangePassword verifies oldPassword against the hash currently stored
// and, on match, replaces it with a hash of newPassword. The hash is
// re-fetched here rather than reused from the auth middleware, so the
// comparison never acts on a stale copy.
func (svc *AccountService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		logger.Log.Errorw("old password mismatch", "id", id)
		return ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	rows, err := svc.writer.UpdatePassword(ctx, id, string(hashedPassword))
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the target user. Hard delete.
func (svc *AccountService) Delete(ctx context.Context, id int64) error {
	rows, err := svc.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "id", id, "err", err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	svc.publishEvent(ctx, models.AccountEvent{
		Event:  models.EventUserDeleted,
		UserID: id,
	})

	return nil
}

// publishEvent publishes an account lifecycle event to kafka. Publishing is
// fire-and-forget: failures are logged and never fail the operation.
func (svc *AccountService) publishEvent(ctx context.Context, event models.AccountEvent) {
	if svc.kafkaWriter == nil {
		logger.Log.Debugw("kafka writer not configured, skipping publishing", "event", event.Event, "user_id", event.UserID)
		return
	}

	event.OccurredAt = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal account event", "event", event.Event, "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: payload,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish account event", "event", event.Event, "user_id", event.UserID, "err", err)
		return
	}

	logger.Log.Infow("account event published", "event", event.Event, "user_id", event.UserID)
}

// coalesce returns value unless it is empty, in which case fallback is used.
func coalesce(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
