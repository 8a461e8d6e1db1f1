package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/tokens"
)

var (
	// ErrResetUnavailable deliberately conflates "no such account" and
	// "account not activated" so the endpoint cannot be used to probe
	// which addresses are registered.
	ErrResetUnavailable = errors.New("account not found or not activated")
)

// PasswordResetService handles the request/confirm stages of the
// password reset flow. Tokens are salted by the current password hash:
// setting the new password consumes the token.
type PasswordResetService struct {
	reader  UserReader
	writer  UserWriter
	confirm ConfirmTokener
	mail    MailSender
	baseURL string
}

// NewPasswordResetService creates a new PasswordResetService instance.
func NewPasswordResetService(
	reader UserReader,
	writer UserWriter,
	confirm ConfirmTokener,
	mail MailSender,
	baseURL string,
) *PasswordResetService {
	return &PasswordResetService{
		reader:  reader,
		writer:  writer,
		confirm: confirm,
		mail:    mail,
		baseURL: baseURL,
	}
}

// Request looks up an activated account by case-insensitive email and
// mails a reset link. A miss, whether unknown address or inactive
// account, is ErrResetUnavailable either way.
func (svc *PasswordResetService) Request(ctx context.Context, email string) error {
	user, err := svc.reader.GetActiveByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to look up user for reset", "err", err)
		return err
	}
	if user == nil {
		return ErrResetUnavailable
	}

	uid := tokens.EncodeUID(user.UserID)
	token := svc.confirm.Make(user.UserID, user.PasswordHash)

	link := fmt.Sprintf("%s/reset/%s/%s", svc.baseURL, uid, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Set a new RecipeBook password by following <a href=%q>this link</a>. If you did not request this, ignore this message.</p>",
		user.Username, link,
	)

	if err := svc.mail.SendHTML(user.Email, "Reset your RecipeBook password", body); err != nil {
		logger.Log.Errorw("failed to send reset email", "err", err)
		return err
	}

	return nil
}

// Confirm consumes a reset link and stores the new password. Writing the
// new hash changes the token's salt, so the link cannot be replayed.
func (svc *PasswordResetService) Confirm(ctx context.Context, uidB64, token, newPassword string) error {
	userID, err := tokens.DecodeUID(uidB64)
	if err != nil {
		logger.Log.Errorw("reset uid decode failed", "err", err)
		return ErrInvalidLink
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrInvalidLink
	}

	if err := svc.confirm.Check(user.UserID, user.PasswordHash, token); err != nil {
		logger.Log.Errorw("reset token rejected", "user_id", user.UserID, "err", err)
		return ErrInvalidLink
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePasswordHash(ctx, user.UserID, string(hashed)); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return err
	}

	return nil
}
