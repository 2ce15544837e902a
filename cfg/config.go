package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	AuthModeIntrospect = "introspect"
	AuthModeOIDC       = "oidc"
)

// Config is the complete process configuration
type Config struct {
	Logger   Logger
	Keycloak Keycloak
	Auth     Auth
	Server   Server
}

type Logger struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type Keycloak struct {
	URL          string        `env:"KEYCLOAK_URL"`
	Realm        string        `env:"KEYCLOAK_REALM"`
	AdminRealm   string        `env:"KEYCLOAK_ADMIN_REALM"`
	ClientID     string        `env:"KEYCLOAK_CLIENT_ID"`
	ClientSecret string        `env:"KEYCLOAK_CLIENT_SECRET"`
	Timeout      time.Duration `env:"KEYCLOAK_TIMEOUT" envDefault:"10s"`
}

type Auth struct {
	Mode            string `env:"AUTH_MODE" envDefault:"introspect"`
	PermissionsFile string `env:"AUTH_PERMISSIONS_FILE"`
	Audience        string `env:"AUTH_AUDIENCE"`
}

type Server struct {
	APIPath             string        `env:"SERVER_API_PATH" envDefault:"api"`
	Port                string        `env:"SERVER_PORT" envDefault:"8080"`
	WriteTimeout        time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ReadTimeout         time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	IdleTimeout         time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	DeadlineOnInterrupt time.Duration `env:"SERVER_DEADLINE_ON_INTERRUPT" envDefault:"15s"`
}

// Load reads the optional dotenv files (".env" when none given) and then the environment
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot load %s: %w", file, err)
		}
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("cannot parse environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the mandatory settings are present and known
func (c *Config) Validate() error {
	var errs []error
	if c.Keycloak.URL == "" {
		errs = append(errs, errors.New("KEYCLOAK_URL is required"))
	}
	if c.Keycloak.Realm == "" {
		errs = append(errs, errors.New("KEYCLOAK_REALM is required"))
	}
	if c.Keycloak.ClientID == "" {
		errs = append(errs, errors.New("KEYCLOAK_CLIENT_ID is required"))
	}
	switch c.Auth.Mode {
	case AuthModeIntrospect, AuthModeOIDC:
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_MODE %q", c.Auth.Mode))
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported LOG_FORMAT %q", c.Logger.Format))
	}
	return errors.Join(errs...)
}

// TokenRealm is the realm the service account authenticates against
func (k *Keycloak) TokenRealm() string {
	if k.AdminRealm != "" {
		return k.AdminRealm
	}
	return k.Realm
}

// BaseURL returns the Keycloak URL without trailing slash
func (k *Keycloak) BaseURL() string {
	return strings.TrimRight(k.URL, "/")
}

// IssuerURL returns the OpenID issuer of the user realm
func (k *Keycloak) IssuerURL() string {
	return fmt.Sprintf("%s/realms/%s", k.BaseURL(), k.Realm)
}

// TokenURL returns the token endpoint of the service account realm
func (k *Keycloak) TokenURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", k.BaseURL(), k.TokenRealm())
}
