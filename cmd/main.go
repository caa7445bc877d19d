package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall"
	"github.com/xinsproject/servicecall/config"
	"github.com/xinsproject/servicecall/log"
)

const appName = "servicecall"

const (
	flagDescriptor = "descriptor"
	flagCalls      = "calls"
	flagOutput     = "output"
)

var (
	configFileFlag = cli.StringSliceFlag{
		Name:     config.FlagCfg,
		Aliases:  []string{"c"},
		Usage:    "Configuration file(s)",
		Required: true,
	}
	saveConfigFlag = cli.StringFlag{
		Name:     config.FlagSaveConfigPath,
		Usage:    "Save final configuration into to the indicated path (name: servicecall_config.toml)",
		Required: false,
	}
	disableDefaultConfigVars = cli.BoolFlag{
		Name:     config.FlagDisableDefaultConfigVars,
		Usage:    "Disable default configuration variables, all of them must be defined on config files",
		Required: false,
	}
	allowDeprecatedFields = cli.BoolFlag{
		Name:     config.FlagAllowDeprecatedFields,
		Usage:    "Allow that config-files contains deprecated fields",
		Required: false,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = servicecall.Version
	app.Usage = "Call services through fail-over descriptors"
	configFlags := []cli.Flag{
		&configFileFlag,
		&saveConfigFlag,
		&disableDefaultConfigVars,
		&allowDeprecatedFields,
	}
	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagOutput,
					Usage: "Output format: text or json",
					Value: "text",
				},
			},
		},
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Serve the introspection API and the prometheus metrics",
			Action:  start,
			Flags:   configFlags,
		},
		{
			Name:   "check",
			Usage:  "Build the configured descriptors and print their topology",
			Action: check,
			Flags:  configFlags,
		},
		{
			Name:   "probe",
			Usage:  "Call a descriptor with TCP probes and report which target answered",
			Action: runProbe,
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     flagDescriptor,
					Aliases:  []string{"d"},
					Usage:    "Name of the root descriptor to call",
					Required: true,
				},
				&cli.IntFlag{
					Name:    flagCalls,
					Aliases: []string{"n"},
					Usage:   "Number of calls, defaults to Probe.Attempts",
				},
			}, configFlags...),
		},
		{
			Name:   "config-schema",
			Usage:  "Print the JSON schema of the configuration file",
			Action: configSchema,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
