package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/tokens"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidLink covers every way a confirmation link can fail:
	// undecodable uid, unknown user, bad or expired token. Collapsing
	// them keeps the response from confirming which accounts exist.
	ErrInvalidLink      = errors.New("invalid or expired link")
	ErrAlreadyActivated = errors.New("account already activated")
	ErrNotActivated     = errors.New("account not activated")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, userID uuid.UUID, username, email, passwordHash string) error
	SetActive(ctx context.Context, userID uuid.UUID) error
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, username string, unconfirmedEmail *string) error
	ConfirmEmail(ctx context.Context, userID uuid.UUID) error
}

// SessionTokener issues session JWTs.
type SessionTokener interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
}

// ConfirmTokener produces and verifies salt-gated confirmation tokens.
type ConfirmTokener interface {
	Make(userID uuid.UUID, salt string) string
	Check(userID uuid.UUID, salt, token string) error
}

// MailSender sends one HTML message synchronously. A send failure fails
// the whole request.
type MailSender interface {
	SendHTML(to, subject, htmlBody string) error
}

// AuthService handles registration, login and account activation.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	jwt         SessionTokener
	confirm     ConfirmTokener
	mail        MailSender
	kafkaWriter KafkaWriter
	baseURL     string
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	jwt SessionTokener,
	confirm ConfirmTokener,
	mail MailSender,
	kafkaWriter KafkaWriter,
	baseURL string,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		confirm:     confirm,
		mail:        mail,
		kafkaWriter: kafkaWriter,
		baseURL:     baseURL,
	}
}

// Register creates an inactive user and mails an activation link. The
// token is salted by the password hash, so it survives until activation
// consumes it or the password changes.
func (svc *AuthService) Register(ctx context.Context, username, password, email string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username, "email", email)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	userID := uuid.New()
	if err := svc.writer.Create(ctx, userID, username, email, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	if err := svc.sendActivationMail(userID, username, email, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to send activation email", "err", err)
		return err
	}

	publishEvent(ctx, svc.kafkaWriter, "user_registered", userID.String(), userID.String())
	return nil
}

// Login authenticates a user and returns a session JWT. Inactive
// accounts may log in; write operations check activation separately.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "username", username)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

// Activate consumes an activation link. Every decode, lookup or token
// failure is reported as ErrInvalidLink. An already active account is
// ErrAlreadyActivated without touching any state. First successful use
// activates the account and returns a session JWT, so activation doubles
// as login.
func (svc *AuthService) Activate(ctx context.Context, uidB64, token string) (string, error) {
	userID, err := tokens.DecodeUID(uidB64)
	if err != nil {
		logger.Log.Errorw("activation uid decode failed", "err", err)
		return "", ErrInvalidLink
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrInvalidLink
	}

	if err := svc.confirm.Check(user.UserID, user.PasswordHash, token); err != nil {
		logger.Log.Errorw("activation token rejected", "user_id", user.UserID, "err", err)
		return "", ErrInvalidLink
	}

	if user.IsActive {
		return "", ErrAlreadyActivated
	}

	if err := svc.writer.SetActive(ctx, user.UserID); err != nil {
		logger.Log.Errorw("failed to activate user", "err", err)
		return "", err
	}

	sessionToken, err := svc.jwt.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	publishEvent(ctx, svc.kafkaWriter, "user_activated", user.UserID.String(), user.UserID.String())
	return sessionToken, nil
}

// ResendActivation regenerates the activation token and resends the
// mail. An already active caller gets ErrAlreadyActivated and nothing is
// sent.
func (svc *AuthService) ResendActivation(ctx context.Context, userID uuid.UUID) error {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}
	if user.IsActive {
		return ErrAlreadyActivated
	}

	if err := svc.sendActivationMail(user.UserID, user.Username, user.Email, user.PasswordHash); err != nil {
		logger.Log.Errorw("failed to send activation email", "err", err)
		return err
	}

	return nil
}

func (svc *AuthService) sendActivationMail(userID uuid.UUID, username, email, passwordHash string) error {
	uid := tokens.EncodeUID(userID)
	token := svc.confirm.Make(userID, passwordHash)

	link := fmt.Sprintf("%s/activate/%s/%s", svc.baseURL, uid, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Confirm your RecipeBook account by following <a href=%q>this link</a>.</p>",
		username, link,
	)

	return svc.mail.SendHTML(email, "Activate your RecipeBook account", body)
}
