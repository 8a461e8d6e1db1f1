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

var (
	// ErrNoPendingEmail is returned when an email-change step runs
	// without a staged unconfirmed address.
	ErrNoPendingEmail = errors.New("no pending email change")
)

// AuthorRecipeLister lists the recipes owned by one author.
type AuthorRecipeLister interface {
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.RecipeDB, error)
}

// ProfileService handles profile viewing and editing, including the
// email-change confirmation flow.
type ProfileService struct {
	reader  UserReader
	writer  UserWriter
	recipes AuthorRecipeLister
	confirm ConfirmTokener
	mail    MailSender
	baseURL string
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(
	reader UserReader,
	writer UserWriter,
	recipes AuthorRecipeLister,
	confirm ConfirmTokener,
	mail MailSender,
	baseURL string,
) *ProfileService {
	return &ProfileService{
		reader:  reader,
		writer:  writer,
		recipes: recipes,
		confirm: confirm,
		mail:    mail,
		baseURL: baseURL,
	}
}

// Get returns the caller's profile together with their recipes, newest
// first.
func (svc *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.UserDB, []models.RecipeDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserDoesNotExist
	}

	recipes, err := svc.recipes.ListByAuthor(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list user recipes", "err", err)
		return nil, nil, err
	}

	return user, recipes, nil
}

// Update saves profile fields. A submitted email differing from the
// current one is staged into unconfirmed_email, leaving the live address
// untouched, and a confirmation link goes to the new address. The token
// is salted by the staged value, so changing the pending address again
// invalidates earlier links. Returns true when a confirmation mail was
// sent.
func (svc *ProfileService) Update(ctx context.Context, userID uuid.UUID, username, email string) (bool, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return false, err
	}
	if user == nil {
		return false, ErrUserDoesNotExist
	}

	var pending *string
	if email != "" && email != user.Email {
		pending = &email
	}

	if err := svc.writer.UpdateProfile(ctx, userID, username, pending); err != nil {
		logger.Log.Errorw("failed to update profile", "err", err)
		return false, err
	}

	if pending == nil {
		return false, nil
	}

	if err := svc.sendEmailChangeMail(userID, username, *pending); err != nil {
		logger.Log.Errorw("failed to send email change confirmation", "err", err)
		return false, err
	}

	return true, nil
}

// ConfirmEmailChange consumes an email-change link: the staged address
// becomes the live one and the staging field clears, which also
// invalidates the token. Invalid or expired links leave state unchanged.
func (svc *ProfileService) ConfirmEmailChange(ctx context.Context, uidB64, token string) (string, error) {
	userID, err := tokens.DecodeUID(uidB64)
	if err != nil {
		logger.Log.Errorw("email change uid decode failed", "err", err)
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
	if user.UnconfirmedEmail == nil {
		return "", ErrNoPendingEmail
	}

	if err := svc.confirm.Check(user.UserID, *user.UnconfirmedEmail, token); err != nil {
		logger.Log.Errorw("email change token rejected", "user_id", user.UserID, "err", err)
		return "", ErrInvalidLink
	}

	if err := svc.writer.ConfirmEmail(ctx, user.UserID); err != nil {
		logger.Log.Errorw("failed to confirm email", "err", err)
		return "", err
	}

	return *user.UnconfirmedEmail, nil
}

// ResendEmailChange resends the confirmation mail for a pending email
// change with a fresh token.
func (svc *ProfileService) ResendEmailChange(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrUserDoesNotExist
	}
	if user.UnconfirmedEmail == nil {
		return "", ErrNoPendingEmail
	}

	if err := svc.sendEmailChangeMail(user.UserID, user.Username, *user.UnconfirmedEmail); err != nil {
		logger.Log.Errorw("failed to send email change confirmation", "err", err)
		return "", err
	}

	return *user.UnconfirmedEmail, nil
}

// ChangePassword verifies the current password and stores a new hash.
// The new hash also invalidates any outstanding activation or reset
// token.
func (svc *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		logger.Log.Errorw("invalid current password", "user_id", userID)
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePasswordHash(ctx, userID, string(hashed)); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return err
	}

	return nil
}

func (svc *ProfileService) sendEmailChangeMail(userID uuid.UUID, username, newEmail string) error {
	uid := tokens.EncodeUID(userID)
	token := svc.confirm.Make(userID, newEmail)

	link := fmt.Sprintf("%s/confirm-email/%s/%s", svc.baseURL, uid, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Confirm your new RecipeBook email address by following <a href=%q>this link</a>. Your address changes only after confirmation.</p>",
		username, link,
	)

	return svc.mail.SendHTML(newEmail, "Confirm your new RecipeBook email", body)
}
