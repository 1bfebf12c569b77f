package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// OAuthClient holds one provider's registered credentials.
// Either field empty means the provider is not configured and
// must not be registered; callbacks for it answer config_error.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

func (c OAuthClient) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	KakaoClientID     string `env:"KAKAO_CLIENT_ID"`
	KakaoClientSecret string `env:"KAKAO_CLIENT_SECRET"`

	NaverClientID     string `env:"NAVER_CLIENT_ID"`
	NaverClientSecret string `env:"NAVER_CLIENT_SECRET"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	// StateSecret signs the OAuth state token that carries the
	// login-vs-link mode descriptor across the redirect round trip.
	StateSecret string `env:"STATE_SECRET"`

	// TermsCurrentVersion is the single source of truth for required
	// terms acceptance. Changing it invalidates every prior acceptance.
	TermsCurrentVersion string `env:"TERMS_CURRENT_VERSION" envDefault:"v1"`

	// TermsAdminBypass lets admin accounts skip the terms gate.
	TermsAdminBypass bool `env:"TERMS_ADMIN_BYPASS" envDefault:"false"`

	// ProfilePath is where link-mode callback errors are surfaced,
	// since the user initiating a link is already signed in there.
	ProfilePath string `env:"PROFILE_PATH" envDefault:"/mypage/profile"`
}

func (c Config) Google() OAuthClient {
	return OAuthClient{ClientID: c.GoogleClientID, ClientSecret: c.GoogleClientSecret}
}

func (c Config) Kakao() OAuthClient {
	return OAuthClient{ClientID: c.KakaoClientID, ClientSecret: c.KakaoClientSecret}
}

func (c Config) Naver() OAuthClient {
	return OAuthClient{ClientID: c.NaverClientID, ClientSecret: c.NaverClientSecret}
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cfg.StateSecret == "" {
		return Config{}, fmt.Errorf("config: STATE_SECRET is required")
	}

	return cfg, nil
}
