package accountcore

import (
	"errors"

	"github.com/MrEthical07/accountcore/jwt"
	"github.com/MrEthical07/accountcore/password"
)

var (
	// ErrUserNotExists is an exported constant or variable used by the account manager.
	ErrUserNotExists = errors.New("user does not exist")
	// ErrUserAlreadyExists is an exported constant or variable used by the account manager.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserInactive is an exported constant or variable used by the account manager.
	ErrUserInactive = errors.New("user is inactive")
	// ErrUserAlreadyVerified is an exported constant or variable used by the account manager.
	ErrUserAlreadyVerified = errors.New("user is already verified")
	// ErrInvalidID is an exported constant or variable used by the account manager.
	ErrInvalidID = errors.New("invalid user id")
	// ErrInvalidVerifyToken is an exported constant or variable used by the account manager.
	ErrInvalidVerifyToken = errors.New("invalid verification token")
	// ErrInvalidResetPasswordToken is an exported constant or variable used by the account manager.
	ErrInvalidResetPasswordToken = errors.New("invalid reset password token")
	// ErrInvalidCredentials is an exported constant or variable used by the account manager.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrManagerNotReady is an exported constant or variable used by the account manager.
	ErrManagerNotReady = errors.New("manager not initialized")

	// ErrStoreNotFound must be returned (or wrapped) by a UserStore when a lookup finds nothing.
	ErrStoreNotFound = errors.New("store: user not found")
	// ErrStoreDuplicateEmail must be returned (or wrapped) by a UserStore when the
	// case-insensitive email uniqueness constraint rejects a write.
	ErrStoreDuplicateEmail = errors.New("store: duplicate email")
)

// Error kinds produced by the codec and the password policy.
var (
	ErrToken          = jwt.ErrToken
	ErrPasswordPolicy = password.ErrPolicy
)

// TokenError is the token failure kind. See [jwt.TokenError].
type TokenError = jwt.TokenError

// PasswordPolicyError is the password policy failure kind. See [password.PolicyError].
type PasswordPolicyError = password.PolicyError
