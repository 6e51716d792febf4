package main

import (
	"github.com/robotalks/dcm.go/pkg/cli/sh"
	"github.com/robotalks/dcm.go/pkg/env"

	_ "github.com/robotalks/dcm.go/pkg/cli/cmds/programming"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
