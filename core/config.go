package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	UIConfig struct {
		NoticeTTL     time.Duration // how long transient notices stay visible
		RedirectDelay time.Duration // delay between a successful submit and navigation
	}

	ServerConfig struct {
		Address string
	}

	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		Build        string
		RollbarToken string

		API     APIConfig
		UI      UIConfig
		Web     ServerConfig
		StubAPI ServerConfig
	}
)

// NewConfig loads the configuration from the environment, optionally seeded by `config/.env.<env>`.
// Keys are read as <ENV>_<KEY>, eg. DEV_API_BASEURL.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Gestión de Alumnos")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("ui.noticeTTL", 3*time.Second)
	v.SetDefault("ui.redirectDelay", 1500*time.Millisecond)
	v.SetDefault("web.address", ":8080")
	v.SetDefault("stubAPI.address", ":8000")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if root, err := Getwd(); err == nil {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
		}
	}
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimSuffix(v.GetString("api.baseURL"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		UI: UIConfig{
			NoticeTTL:     v.GetDuration("ui.noticeTTL"),
			RedirectDelay: v.GetDuration("ui.redirectDelay"),
		},
		Web:     ServerConfig{Address: v.GetString("web.address")},
		StubAPI: ServerConfig{Address: v.GetString("stubAPI.address")},
	}, nil
}
