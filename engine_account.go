package authkit

import (
	"context"
	"strconv"
)

// SetAccountActive toggles the account's active flag. A deactivated
// account keeps its credentials but cannot log in until reactivated.
func (e *Engine) SetAccountActive(ctx context.Context, userID string, active bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.store.UpdateField(ctx, userID, FieldIsActive, strconv.FormatBool(active)); err != nil {
		return e.storeErr("updating active flag", err)
	}
	e.log.Info().Str("user_id", userID).Bool("active", active).Msg("account active flag updated")
	return nil
}

// InviteUser mails a registration invitation carrying the given invite
// token. The token is created and tracked by the embedding application's
// store; Register validates and consumes it when the invitee signs up.
func (e *Engine) InviteUser(ctx context.Context, email, inviteToken string) error {
	if err := e.ready(); err != nil {
		return err
	}

	email = NormalizeEmail(email)
	if email == "" || inviteToken == "" {
		return ErrTokenInvalid
	}
	e.sendEmail(ctx, email, TemplateInvitation, map[string]string{
		"token": inviteToken,
	})
	e.log.Info().Str("email", email).Msg("invitation sent")
	return nil
}
