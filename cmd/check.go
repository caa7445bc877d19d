package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall/descriptor"
)

func check(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return cli.Exit(err, 1)
	}
	descriptors, err := cfg.Descriptors.Build()
	if err != nil {
		return cli.Exit(err, 1)
	}
	printTopology(os.Stdout, descriptors)
	return nil
}

func printTopology(w io.Writer, descriptors map[string]descriptor.Descriptor) {
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		d := descriptors[name]
		fmt.Fprintf(w, "%s (%d targets)\n", name, d.TargetCount())
		descriptor.Walk(d, func(node descriptor.Descriptor, depth int) bool {
			indent := strings.Repeat("  ", depth+1)
			switch v := node.(type) {
			case *descriptor.GroupDescriptor:
				fmt.Fprintf(w, "%sgroup %s, %d members\n", indent, v.Strategy(), len(v.Members()))
			case *descriptor.TargetDescriptor:
				fmt.Fprintf(w, "%s%08x %s timeout=%s\n", indent, v.Fingerprint(), v.URL(), v.Timeout())
			}
			return true
		})
	}
}
