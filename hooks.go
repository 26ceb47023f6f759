package accountcore

import "context"

// Hooks receives lifecycle notifications, including every token the manager
// issues. Delivering tokens to the user (email or otherwise) is the
// implementation's job. A returned error is propagated to the caller.
type Hooks interface {
	OnAfterRegister(ctx context.Context, user User) error
	OnAfterRequestVerify(ctx context.Context, user User, tokens VerificationTokens) error
	OnAfterVerify(ctx context.Context, user User) error
	OnAfterForgotPassword(ctx context.Context, user User, token string) error
	OnAfterResetPassword(ctx context.Context, user User) error
}

// NoOpHooks ignores every notification.
type NoOpHooks struct{}

func (NoOpHooks) OnAfterRegister(context.Context, User) error                          { return nil }
func (NoOpHooks) OnAfterRequestVerify(context.Context, User, VerificationTokens) error { return nil }
func (NoOpHooks) OnAfterVerify(context.Context, User) error                            { return nil }
func (NoOpHooks) OnAfterForgotPassword(context.Context, User, string) error            { return nil }
func (NoOpHooks) OnAfterResetPassword(context.Context, User) error                     { return nil }
