package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// APIURLKey is the base url of the Trocador API
	APIURLKey = "API_URL"
	// APIKeyKey is the key injected in every request forwarded to the API.
	APIKeyKey = "API_KEY"
	// ProxyPrefixKey is the path prefix under which the API is proxied
	ProxyPrefixKey = "PROXY_PREFIX"
	// PollIntervalKey is the interval between background refreshes of a
	// tracked trade
	PollIntervalKey = "POLL_INTERVAL"
	// RequestTimeoutKey is the timeout of every request made to the API
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// UpstreamRateLimitKey is the max number of requests per second made to
	// the API. Zero disables pacing
	UpstreamRateLimitKey = "UPSTREAM_RATE_LIMIT"
	// ProxyRateLimitKey is the max number of proxied requests per minute
	// accepted from a single client. Zero disables the limit
	ProxyRateLimitKey = "PROXY_RATE_LIMIT"
	// CORSAllowedOriginsKey is the comma separated list of origins allowed by
	// the proxy
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// NoPersistenceKey makes the daemon keep the trade views in memory only
	NoPersistenceKey = "NO_PERSISTENCE"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// StatsIntervalKey defines interval for printing basic statistics. Zero
	// disables them
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DefaultAPIURL      = "https://api.trocador.app"
	DefaultProxyPrefix = "/api/trocador"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("swapgate-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SWAPGATE")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 4000)
	vip.SetDefault(APIURLKey, DefaultAPIURL)
	vip.SetDefault(ProxyPrefixKey, DefaultProxyPrefix)
	vip.SetDefault(PollIntervalKey, 10*time.Second)
	vip.SetDefault(RequestTimeoutKey, 30*time.Second)
	vip.SetDefault(UpstreamRateLimitKey, 10)
	vip.SetDefault(ProxyRateLimitKey, 120)
	vip.SetDefault(CORSAllowedOriginsKey, "*")
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(NoPersistenceKey, false)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(StatsIntervalKey, 0)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the trade view store, or an empty string
// when persistence is disabled.
func GetDbDir() string {
	if GetBool(NoPersistenceKey) {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetProxyPrefix returns the proxy prefix with a leading and without a
// trailing slash.
func GetProxyPrefix() string {
	prefix := strings.Trim(GetString(ProxyPrefixKey), "/")
	return "/" + prefix
}

func GetAllowedOrigins() []string {
	origins := make([]string, 0)
	for _, o := range strings.Split(GetString(CORSAllowedOriginsKey), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	apiURL := GetString(APIURLKey)
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be a valid absolute url", APIURLKey)
	}

	if strings.Trim(GetString(ProxyPrefixKey), "/") == "" {
		return fmt.Errorf("%s must not be empty", ProxyPrefixKey)
	}

	if GetDuration(PollIntervalKey) < time.Second {
		return fmt.Errorf("%s must be at least 1s", PollIntervalKey)
	}
	if GetDuration(RequestTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", RequestTimeoutKey)
	}

	if GetInt(UpstreamRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", UpstreamRateLimitKey)
	}
	if GetInt(ProxyRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", ProxyRateLimitKey)
	}

	if len(GetAllowedOrigins()) <= 0 {
		return fmt.Errorf("%s must list at least one origin", CORSAllowedOriginsKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if !GetBool(NoPersistenceKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	if GetInt(StatsIntervalKey) > 0 {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
