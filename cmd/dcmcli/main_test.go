package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	for _, name := range []string{"e", "json", "port", "baud", "timeout", "operator", "report", "metrics"} {
		require.NotNil(t, flag.Lookup(name), name)
	}
}
