package cmd

import (
	"github.com/urfave/cli"

	"github.com/achilleasa/vao/log"
)

var logger = log.New("vao")

// Apply the log level from the config file and then the verbosity flags,
// which take precedence.
func setupLogging(ctx *cli.Context, configLevel string) error {
	level, err := log.ParseLevel(configLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
