package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall"
)

func versionCmd(cliCtx *cli.Context) error {
	switch output := cliCtx.String(flagOutput); output {
	case "", "text":
		servicecall.PrintVersion(os.Stdout)
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(servicecall.GetVersion())
	default:
		return fmt.Errorf("unknown output format %s", output)
	}
	return nil
}
