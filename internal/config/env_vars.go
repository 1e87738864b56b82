package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar   = "APP_NAME"
	emailVar     = "DASHBOARD_EMAIL"
	passwordVar  = "DASHBOARD_PASSWORD"
	tokenFileVar = "TOKEN_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Veridata")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetSignInEmail() string {
	return GetEnv(emailVar, "")
}

func (EnvVars) GetSignInPassword() string {
	return GetEnv(passwordVar, "")
}

// GetTokenFile returns the path of the durable bearer token mirror. The
// default lives under the user config dir so repeated runs reuse the last
// issued token.
func (EnvVars) GetTokenFile() string {
	if f := os.Getenv(tokenFileVar); f != "" {
		return f
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".veridata", "auth_token")
	}
	return filepath.Join(dir, "veridata", "auth_token")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
