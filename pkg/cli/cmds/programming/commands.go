package programming

import (
	"context"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/dcm.go/pkg/cli/sh"
	"github.com/robotalks/dcm.go/pkg/pacing"
)

var (
	// ModeCmd selects the pacing mode.
	ModeCmd = ishell.Cmd{
		Name:    "mode",
		Aliases: []string{"m"},
		Help:    "[MODE]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) > 0 {
				if err := s.SetMode(c.Args[0]); err != nil {
					c.Err(err)
					return
				}
			}
			s.Print(c, map[string]string{"mode": s.Mode.String()}, s.Mode.String())
		},
	}

	// SetCmd sets a pending parameter.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "NAME VALUE, e.g. set VRP 320 or set \"Lower Rate Limit\" 60",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("NAME VALUE required"))
				return
			}
			s := sh.ShellFrom(c)
			name := strings.Join(c.Args[:len(c.Args)-1], " ")
			p, err := s.SetParam(name, c.Args[len(c.Args)-1])
			if err != nil {
				c.Err(err)
				return
			}
			if !s.Mode.Applies(p) {
				c.Printf("%s doesn't apply to %s\n", p, s.Mode)
			}
		},
	}

	// ResetCmd restores nominal parameters.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: func(c *ishell.Context) {
			sh.ShellFrom(c).Params = pacing.Nominal()
		},
	}

	// ParamsCmd lists pending parameters of current mode.
	ParamsCmd = ishell.Cmd{
		Name:    "params",
		Aliases: []string{"p"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			entries := s.PendingParams()
			if s.OutputJSON {
				s.Print(c, entries, "")
				return
			}
			for _, e := range entries {
				c.Printf("%-24s %8g %-4s [%g, %g]\n", e.Name, e.Value, e.Unit, e.Min, e.Max)
			}
		},
	}

	// ApplyCmd programs the device.
	ApplyCmd = ishell.Cmd{
		Name:    "apply",
		Aliases: []string{"a"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			resp, err := s.Apply(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, resp, resp.String())
		}),
	}
)

func init() {
	sh.AddCmds(
		&ModeCmd,
		&SetCmd,
		&ResetCmd,
		&ParamsCmd,
		&ApplyCmd,
	)
}
