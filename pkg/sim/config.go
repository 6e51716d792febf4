package sim

import (
	"flag"
	"time"

	fx "github.com/robotalks/dcm.go/pkg/framework"
)

// Config defines the configuration of the simulator.
type Config struct {
	TCPAddr       string
	WebsocketAddr string
	ReplyDelay    time.Duration
}

// Defaults
const (
	DefaultTCPAddr       = ":7716"
	DefaultWebsocketAddr = ":7717"
)

var defaultConfig = Config{
	TCPAddr:       DefaultTCPAddr,
	WebsocketAddr: DefaultWebsocketAddr,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.TCPAddr, "tcp", defaultConfig.TCPAddr, "TCP listening address, empty to disable.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listening address, empty to disable.")
	flag.DurationVar(&defaultConfig.ReplyDelay, "reply-delay", defaultConfig.ReplyDelay, "Delay before each response.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewRunnables creates a Device and the servers exposing it.
func (c *Config) NewRunnables() (*Device, []fx.Runnable) {
	dev := NewDevice()
	dev.ReplyDelay = c.ReplyDelay
	var runners []fx.Runnable
	if c.TCPAddr != "" {
		runners = append(runners, &TCPServer{Device: dev, Addr: c.TCPAddr})
	}
	if c.WebsocketAddr != "" {
		runners = append(runners, &WebsocketServer{Device: dev, Addr: c.WebsocketAddr})
	}
	return dev, runners
}
