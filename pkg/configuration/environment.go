package configuration

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nextdoorextsolutions/roofline/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

func Use() *Configuration {
	return singleton()
}

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"roofline"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// LienOptions configures the statutory lien-filing window. The window is
// jurisdiction-specific and set per deployment.
type LienOptions struct {
	WindowDays int `env:"LIEN_WINDOW_DAYS" envDefault:"90"`
}

func (l *LienOptions) Window() time.Duration {
	return time.Duration(l.WindowDays) * 24 * time.Hour
}

func (l *LienOptions) Validate() error {
	if l.WindowDays <= 0 {
		return fmt.Errorf("lien WindowDays must be positive, got %d", l.WindowDays)
	}
	return nil
}

// CommissionOptions configures weekly bonus evaluation. Timezone decides
// where the Monday-to-Sunday week boundary falls.
type CommissionOptions struct {
	Timezone string `env:"COMMISSION_TIMEZONE" envDefault:"America/Chicago"`
}

func (c *CommissionOptions) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	Database   DatabaseOptions
	Lien       LienOptions
	Commission CommissionOptions
	Prometheus PrometheusOptions

	LogPath       string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	ServerPort    int    `env:"PORT" envDefault:"3200"`
	SocketAddress string `env:"-"`
	Environment   string `env:"GO_APP_ENV" envDefault:"development"`

	logger *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) load(envFiles []string) error {
	if _, err := LoadEnv(envFiles); err != nil {
		return err
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.Lien.Validate(); err != nil {
		return err
	}
	if _, err := c.Commission.Location(); err != nil {
		return fmt.Errorf("invalid commission timezone %q: %w", c.Commission.Timezone, err)
	}
	c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	c.logger = logging.Setup(c.LogLevel, c.LogPath, c.Environment == Production)
	return nil
}
