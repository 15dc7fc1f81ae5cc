package authkit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nexdesk/authkit"
)

func TestUnbuiltEngineRejectsCalls(t *testing.T) {
	var engine authkit.Engine
	ctx := context.Background()

	checks := map[string]error{}

	_, err := engine.Login(ctx, "a@b.c", "pw", false)
	checks["Login"] = err
	_, err = engine.Register(ctx, authkit.RegisterRequest{Email: "a@b.c", Password: "longenough"})
	checks["Register"] = err
	_, err = engine.VerifyTwoFactorLogin(ctx, "u1", "000000", false)
	checks["VerifyTwoFactorLogin"] = err
	_, err = engine.VerifyBackupCodeLogin(ctx, "u1", "AAAAA-AAAAA")
	checks["VerifyBackupCodeLogin"] = err
	_, err = engine.RefreshAccessToken(ctx, "tok")
	checks["RefreshAccessToken"] = err
	checks["ForgotPassword"] = engine.ForgotPassword(ctx, "a@b.c")
	checks["ResetPassword"] = engine.ResetPassword(ctx, "tok", "longenough")
	checks["VerifyEmail"] = engine.VerifyEmail(ctx, "tok")
	_, err = engine.BeginTwoFactorSetup(ctx, "u1")
	checks["BeginTwoFactorSetup"] = err
	_, err = engine.ConfirmTwoFactorSetup(ctx, "u1", "000000")
	checks["ConfirmTwoFactorSetup"] = err
	checks["DisableTwoFactor"] = engine.DisableTwoFactor(ctx, "u1", "pw")
	_, err = engine.RegenerateBackupCodes(ctx, "u1")
	checks["RegenerateBackupCodes"] = err
	checks["SetAccountActive"] = engine.SetAccountActive(ctx, "u1", true)
	checks["InviteUser"] = engine.InviteUser(ctx, "a@b.c", "inv")
	checks["Logout"] = engine.Logout(ctx, "u1")
	_, err = engine.ParseAccessToken("tok")
	checks["ParseAccessToken"] = err

	for name, err := range checks {
		if !errors.Is(err, authkit.ErrEngineNotReady) {
			t.Errorf("%s on an unbuilt engine got %v, want ErrEngineNotReady", name, err)
		}
	}
}
