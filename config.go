package accountcore

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrEthical07/accountcore/jwt"
)

// Supported primary password algorithms.
const (
	PasswordArgon2ID = "argon2id"
	PasswordBcrypt   = "bcrypt"
)

// Config defines a public type used by accountcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Metrics  MetricsConfig
}

// JWTConfig controls token issuance for verification and password reset.
type JWTConfig struct {
	Algorithm                string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	SecretKey                string `env:"JWT_SECRET_KEY"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"15"`
	RefreshTokenExpireDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`
	ResetTokenExpireMinutes  int    `env:"RESET_PASSWORD_TOKEN_EXPIRE_MINUTES" envDefault:"60"`
	ScopesRequired           bool   `env:"JWT_SCOPES_REQUIRED" envDefault:"true"`
}

// AccessTokenLifetime returns the access token lifetime.
func (c JWTConfig) AccessTokenLifetime() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenLifetime returns the refresh token lifetime.
func (c JWTConfig) RefreshTokenLifetime() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

// ResetTokenLifetime returns the password reset token lifetime.
func (c JWTConfig) ResetTokenLifetime() time.Duration {
	return time.Duration(c.ResetTokenExpireMinutes) * time.Minute
}

// PasswordConfig selects the primary hasher and its cost. The other supported
// algorithm is always accepted as legacy so stored hashes migrate on login.
type PasswordConfig struct {
	Primary           string `env:"PASSWORD_PRIMARY_ALGORITHM" envDefault:"argon2id"`
	Argon2Memory      uint32 `env:"PASSWORD_ARGON2_MEMORY" envDefault:"65536"`
	Argon2Time        uint32 `env:"PASSWORD_ARGON2_TIME" envDefault:"3"`
	Argon2Parallelism uint8  `env:"PASSWORD_ARGON2_PARALLELISM" envDefault:"2"`
	Argon2SaltLength  uint32 `env:"PASSWORD_ARGON2_SALT_LENGTH" envDefault:"16"`
	Argon2KeyLength   uint32 `env:"PASSWORD_ARGON2_KEY_LENGTH" envDefault:"32"`
	BcryptCost        int    `env:"PASSWORD_BCRYPT_COST" envDefault:"12"`
	UpgradeOnLogin    bool   `env:"PASSWORD_UPGRADE_ON_LOGIN" envDefault:"true"`
}

// MetricsConfig defines a public type used by accountcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool `env:"METRICS_ENABLED" envDefault:"true"`
	EnableLatencyHistograms bool `env:"METRICS_LATENCY_HISTOGRAMS" envDefault:"false"`
}

// DefaultConfig returns the documented defaults. SecretKey is left empty and
// must be supplied before Build.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			Algorithm:                jwt.DefaultAlgorithm,
			AccessTokenExpireMinutes: 15,
			RefreshTokenExpireDays:   7,
			ResetTokenExpireMinutes:  60,
			ScopesRequired:           true,
		},
		Password: PasswordConfig{
			Primary:           PasswordArgon2ID,
			Argon2Memory:      65536,
			Argon2Time:        3,
			Argon2Parallelism: 2,
			Argon2SaltLength:  16,
			Argon2KeyLength:   32,
			BcryptCost:        12,
			UpgradeOnLogin:    true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads the optional dotenv files (missing files are skipped) and
// then parses the process environment over the defaults.
//
// LoadConfig does not validate; Builder.Build does.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when a field is out of range or a required value is missing.
func (c *Config) Validate() error {
	if !jwt.Supported(c.JWT.Algorithm) {
		return fmt.Errorf("unsupported JWT algorithm %q", c.JWT.Algorithm)
	}
	if c.JWT.SecretKey == "" {
		return errors.New("JWT secret key must be provided")
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 {
		return errors.New("access token lifetime must be > 0")
	}
	if c.JWT.RefreshTokenExpireDays <= 0 {
		return errors.New("refresh token lifetime must be > 0")
	}
	if c.JWT.ResetTokenExpireMinutes <= 0 {
		return errors.New("reset password token lifetime must be > 0")
	}

	switch c.Password.Primary {
	case PasswordArgon2ID, PasswordBcrypt:
	default:
		return fmt.Errorf("unsupported password algorithm %q", c.Password.Primary)
	}
	if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
