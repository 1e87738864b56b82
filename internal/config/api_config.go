package config

import (
	"strings"
	"time"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetRequestRate() float64
	GetRequestBurst() int
}

const (
	baseURLVar = "API_BASE_URL"

	// productionBaseURL is always used when ENV=PRODUCTION, regardless of any
	// configured override. Non-production builds may point anywhere.
	productionBaseURL = "https://api.veridata.io"
	localBaseURL      = "http://localhost:8000"
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL resolves the effective backend origin for the current
// environment. The resolution runs on every call so a changed environment is
// picked up by the next client access.
func (a API) GetAPIBaseURL() string {
	if strings.EqualFold(EnvVars{}.GetEnv(), "PRODUCTION") {
		return productionBaseURL
	}
	return strings.TrimSuffix(GetEnv(baseURLVar, localBaseURL), "/")
}

func (API) GetRequestTimeout() time.Duration {
	return 30 * time.Second
}

// GetRequestRate bounds outgoing requests per second so pollers cannot
// stampede the backend.
func (API) GetRequestRate() float64 {
	return 20
}

func (API) GetRequestBurst() int {
	return 40
}
