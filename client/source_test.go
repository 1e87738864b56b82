package client_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veridata/dataquality-go/client"
	"github.com/veridata/dataquality-go/client/credstore/repofakes"
	"github.com/veridata/dataquality-go/internal/config"
)

// switchableConfig resolves to whichever base URL the test last set.
type switchableConfig struct {
	lock sync.Mutex
	url  string
}

var _ config.APIConfig = (*switchableConfig)(nil)

func (c *switchableConfig) GetAPIBaseURL() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.url
}

func (c *switchableConfig) set(url string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.url = url
}

func (c *switchableConfig) GetRequestTimeout() time.Duration { return time.Second }
func (c *switchableConfig) GetRequestRate() float64          { return 0 }
func (c *switchableConfig) GetRequestBurst() int             { return 0 }

func TestSourceReusesClientWhileURLStable(t *testing.T) {
	cfg := &switchableConfig{url: "http://localhost:8000"}
	source := client.NewSource(cfg)

	first, err := source.Get()
	require.NoError(t, err)
	second, err := source.Get()
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestSourceRebuildsOnBaseURLChange(t *testing.T) {
	cfg := &switchableConfig{url: "http://localhost:8000"}
	source := client.NewSource(cfg)

	before, err := source.Get()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", before.BaseURL())

	cfg.set("https://api.veridata.io")

	after, err := source.Get()
	require.NoError(t, err)
	require.NotSame(t, before, after)
	require.Equal(t, "https://api.veridata.io", after.BaseURL())
}

func TestSourceCarriesTokenAcrossRebuild(t *testing.T) {
	cfg := &switchableConfig{url: "http://localhost:8000"}
	source := client.NewSource(cfg, client.WithStore(repofakes.NewFakeCredRepo()))

	require.NoError(t, source.SetToken("tok-live"))

	cfg.set("https://api.veridata.io")

	rebuilt, err := source.Get()
	require.NoError(t, err)
	require.Equal(t, "tok-live", rebuilt.Token())
}

func TestSourceClearTokenPropagates(t *testing.T) {
	store := repofakes.NewFakeCredRepo()
	cfg := &switchableConfig{url: "http://localhost:8000"}
	source := client.NewSource(cfg, client.WithStore(store))

	require.NoError(t, source.SetToken("tok-live"))
	require.Equal(t, "tok-live", store.Stored())

	require.NoError(t, source.ClearToken())
	c, err := source.Get()
	require.NoError(t, err)
	require.Empty(t, c.Token())
	require.Empty(t, store.Stored())
}

func TestProductionEnvironmentForcesProductionURL(t *testing.T) {
	t.Setenv("ENV", "PRODUCTION")
	t.Setenv("API_BASE_URL", "http://attacker.example")

	require.Equal(t, "https://api.veridata.io", config.API{}.GetAPIBaseURL())
}

func TestNonProductionHonorsOverride(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("API_BASE_URL", "http://localhost:9999/")

	// Trailing slash is trimmed so path joins stay clean.
	require.Equal(t, "http://localhost:9999", config.API{}.GetAPIBaseURL())
}
