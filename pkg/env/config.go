package env

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/robotalks/dcm.go/pkg/link"
	"github.com/robotalks/dcm.go/pkg/report"
)

// Config provides common options of DCM commands.
type Config struct {
	// Port is the port identifier to connect on start, e.g. COM3 or
	// tcp://localhost:7716.
	Port     string
	BaudRate int
	// Timeout is the time waiting for a complete response.
	Timeout time.Duration
	// Operator is the authenticated user recorded in audit logs.
	Operator string
	// ReportURL is the MQTT broker to publish exchange reports,
	// e.g. mqtt://localhost:1883/dcm/. Empty disables reporting.
	ReportURL string
	// MetricsAddr is the listening address of the metrics endpoint.
	// Empty disables it.
	MetricsAddr string
}

var defaultConfig = Config{
	BaudRate: link.DefaultBaudRate,
	Timeout:  link.DefaultTimeout,
}

func init() {
	LoadEnv(&defaultConfig)
}

// LoadEnv loads .env in the working directory and overrides conf with
// DCM_* environment variables.
func LoadEnv(conf *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		glog.Warningf("load .env: %v", err)
	}
	if val := os.Getenv("DCM_PORT"); val != "" {
		conf.Port = val
	}
	if val := os.Getenv("DCM_BAUD_RATE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			conf.BaudRate = n
		} else {
			glog.Warningf("ignore invalid DCM_BAUD_RATE %q", val)
		}
	}
	if val := os.Getenv("DCM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			conf.Timeout = d
		} else {
			glog.Warningf("ignore invalid DCM_TIMEOUT %q", val)
		}
	}
	if val := os.Getenv("DCM_OPERATOR"); val != "" {
		conf.Operator = val
	}
	if val := os.Getenv("DCM_REPORT_URL"); val != "" {
		conf.ReportURL = val
	}
	if val := os.Getenv("DCM_METRICS_ADDR"); val != "" {
		conf.MetricsAddr = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Port to connect on start.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial port baud rate.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Response timeout.")
	flag.StringVar(&defaultConfig.Operator, "operator", defaultConfig.Operator, "Operator name for audit logs.")
	flag.StringVar(&defaultConfig.ReportURL, "report", defaultConfig.ReportURL, "MQTT URL to publish exchange reports.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Listening address of metrics endpoint.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewSession creates a link.Session using current config.
func (c *Config) NewSession() *link.Session {
	s := link.NewSession(link.NewPortOpener(c.BaudRate))
	if c.Timeout > 0 {
		s.Timeout = c.Timeout
	}
	return s
}

// NewPublisher creates the report publisher, nil if reporting is
// disabled.
func (c *Config) NewPublisher() (*report.Publisher, error) {
	if c.ReportURL == "" {
		return nil, nil
	}
	return report.NewPublisher(c.ReportURL, DeviceID())
}
