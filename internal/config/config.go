package config

type Config interface {
	EnvConfig
	APIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetSignInEmail() string
	GetSignInPassword() string
	GetTokenFile() string
}

type mainConfig struct {
	EnvVars
	API
}

func New() Config {
	return mainConfig{}
}
