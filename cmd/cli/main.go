package main

import (
	"fmt"
	"os"

	"dd-planner/internal/config"
	"dd-planner/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ddplanner",
		Usage: "estimate the odds of passing a trailing-drawdown evaluation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "plain",
				Usage:   "text, json or plain",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := config.LoadEnv(".env"); err != nil {
				return err
			}
			l, err := logging.New(c.String("log-level"), c.String("log-format"))
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{"log": l}
			return nil
		},
		Commands: []*cli.Command{
			simulateCommand(),
			compareCommand(),
			chartCommand(),
			traceCommand(),
			presetsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ddplanner: %v\n", err)
		os.Exit(1)
	}
}

func logger(c *cli.Context) *log.Logger {
	if l, ok := c.App.Metadata["log"].(*log.Logger); ok {
		return l
	}
	return log.StandardLogger()
}
