package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/dcm.go/pkg/codec"
	"github.com/robotalks/dcm.go/pkg/env"
	"github.com/robotalks/dcm.go/pkg/link"
	"github.com/robotalks/dcm.go/pkg/pacing"
	"github.com/robotalks/dcm.go/pkg/report"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell     *ishell.Shell
	Config    *env.Config
	Session   *link.Session
	Publisher *report.Publisher

	// Mode and Params are the pending settings for the next apply.
	Mode   pacing.Mode
	Params pacing.ParameterSet

	// ListPorts enumerates available ports.
	ListPorts func() ([]string, error)
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&CheckCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := NewWithSession(conf, conf.NewSession())
	s.Interactive, s.OutputJSON = !evalOnly, outputJSON
	s.Shell = ishell.New()
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// NewWithSession creates the shell state without the interactive
// frontend.
func NewWithSession(conf *env.Config, session *link.Session) *Shell {
	return &Shell{
		Config:    conf,
		Session:   session,
		Mode:      pacing.VOO,
		Params:    pacing.Nominal(),
		ListPorts: link.ListPorts,
	}
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session.State() == link.StateDisconnected {
			c.Err(link.ErrNotConnected)
			return
		}
		fn(c)
	}
}

// Print prints v as JSON if OutputJSON is set, otherwise text.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Connect connects the port and switches the prompt.
func (s *Shell) Connect(ctx context.Context, portID string) error {
	if err := s.Session.Connect(ctx, portID); err != nil {
		return err
	}
	s.setPrompt(fmt.Sprintf("[%s] > ", portID))
	return nil
}

// Disconnect disconnects current port.
func (s *Shell) Disconnect() error {
	err := s.Session.Close()
	s.setPrompt(unconnectedPrompt)
	return err
}

// SetMode selects the mode of the next apply.
func (s *Shell) SetMode(name string) error {
	mode, err := pacing.ParseMode(name)
	if err != nil {
		return err
	}
	s.Mode = mode
	return nil
}

// SetParam sets a pending parameter value after range checking.
func (s *Shell) SetParam(name, value string) (pacing.Param, error) {
	p, err := pacing.ParseParam(name)
	if err != nil {
		return p, err
	}
	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return p, fmt.Errorf("invalid value %q: %v", value, err)
	}
	if err = p.Check(val); err != nil {
		return p, err
	}
	s.Params[p] = val
	return p, nil
}

// ParamEntry is a pending parameter of the current mode.
type ParamEntry struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit,omitempty"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// PendingParams lists the pending parameters applicable to the mode.
func (s *Shell) PendingParams() []ParamEntry {
	params := s.Mode.Params()
	entries := make([]ParamEntry, 0, len(params))
	for _, p := range params {
		info := p.Info()
		entries = append(entries, ParamEntry{
			Name:  info.Name,
			Unit:  info.Unit,
			Value: s.Params[p],
			Min:   info.Range.Min,
			Max:   info.Range.Max,
		})
	}
	return entries
}

// Apply programs the device with the pending settings.
func (s *Shell) Apply(ctx context.Context) (*codec.Response, error) {
	operator := s.Config.Operator
	if operator == "" {
		operator = "anonymous"
	}
	glog.Infof("audit: %s applies %s to %s", operator, s.Mode, s.Session.Port())
	return s.Session.Apply(ctx, s.Mode, s.Params)
}

// Check probes the device.
func (s *Shell) Check(ctx context.Context) (link.LinkStatus, error) {
	return s.Session.CheckConnection(ctx)
}

// EnableReports publishes a report for every exchange.
func (s *Shell) EnableReports(pub *report.Publisher) {
	s.Publisher = pub
	s.Session.Observers = append(s.Session.Observers, pub.Observe)
}

// Close releases the port and the report publisher.
func (s *Shell) Close() error {
	err := s.Session.Close()
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	return err
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if port := s.Config.Port; port != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", port)
		}
		if err := s.Connect(context.Background(), port); err != nil {
			log.Fatalf("connect %q failed: %v", port, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ports, err := s.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			sort.Strings(ports)
			if s.OutputJSON {
				if ports == nil {
					ports = []string{}
				}
				s.Print(c, ports, "")
				return
			}
			if len(ports) == 0 {
				c.Println("No ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// ConnectCmd connects a port.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "PORT",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PORT required"))
				return
			}
			if err := ShellFrom(c).Connect(context.Background(), c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current port.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Disconnect(); err != nil {
				c.Err(err)
			}
		},
	}

	// CheckCmd probes the device.
	CheckCmd = ishell.Cmd{
		Name: "check",
		Help: "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			status, err := s.Check(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, map[string]string{"status": status.String()}, status.String())
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf := env.NewConfig()
	s := New(conf)
	if pub, err := conf.NewPublisher(); err != nil {
		log.Fatalln(err)
	} else if pub != nil {
		pub.Operator = conf.Operator
		if err = pub.Connect(); err != nil {
			log.Fatalf("connect %s failed: %v", conf.ReportURL, err)
		}
		s.EnableReports(pub)
	}
	if addr := conf.MetricsAddr; addr != "" {
		s.Session.Metrics = ServeMetrics(addr)
	}
	s.Run(flag.Args()...)
}
