package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/dcm.go/pkg/framework"
	"github.com/robotalks/dcm.go/pkg/sim"
)

func init() {
	sim.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	_, runners := sim.NewConfig().NewRunnables()
	if len(runners) == 0 {
		glog.Exit("nothing to serve, specify -tcp or -ws")
	}
	if err := fx.NewRunner().HandleSignals().Go(runners...).Wait(); err != nil {
		glog.Exit(err)
	}
}
