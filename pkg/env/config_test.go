package env

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcm.go/pkg/link"
)

func setenv(t *testing.T, vals map[string]string) {
	for key, val := range vals {
		require.NoError(t, os.Setenv(key, val))
	}
}

func unsetenv(vals map[string]string) {
	for key := range vals {
		os.Unsetenv(key)
	}
}

func TestLoadEnv(t *testing.T) {
	vals := map[string]string{
		"DCM_PORT":         "tcp://localhost:7716",
		"DCM_BAUD_RATE":    "57600",
		"DCM_TIMEOUT":      "250ms",
		"DCM_OPERATOR":     "nurse1",
		"DCM_REPORT_URL":   "mqtt://localhost:1883/dcm/",
		"DCM_METRICS_ADDR": ":9116",
	}
	setenv(t, vals)
	defer unsetenv(vals)

	conf := NewConfig()
	LoadEnv(conf)
	require.Equal(t, "tcp://localhost:7716", conf.Port)
	require.Equal(t, 57600, conf.BaudRate)
	require.Equal(t, 250*time.Millisecond, conf.Timeout)
	require.Equal(t, "nurse1", conf.Operator)
	require.Equal(t, "mqtt://localhost:1883/dcm/", conf.ReportURL)
	require.Equal(t, ":9116", conf.MetricsAddr)

	s := conf.NewSession()
	require.Equal(t, 250*time.Millisecond, s.Timeout)
	require.Equal(t, link.StateDisconnected, s.State())
}

func TestLoadEnvInvalid(t *testing.T) {
	vals := map[string]string{
		"DCM_BAUD_RATE": "fast",
		"DCM_TIMEOUT":   "-1s",
	}
	setenv(t, vals)
	defer unsetenv(vals)

	conf := &Config{BaudRate: link.DefaultBaudRate, Timeout: link.DefaultTimeout}
	LoadEnv(conf)
	require.Equal(t, link.DefaultBaudRate, conf.BaudRate)
	require.Equal(t, link.DefaultTimeout, conf.Timeout)
}

func TestNoPublisherWithoutURL(t *testing.T) {
	conf := &Config{}
	pub, err := conf.NewPublisher()
	require.NoError(t, err)
	require.Nil(t, pub)
}
