package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xinsproject/servicecall/caller"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/probe"
)

func TestPrintTopology(t *testing.T) {
	src := descriptor.MapSource{
		"billing":   "group, ordered, a, b",
		"billing.a": "service, http://billing-1.example/, 1000",
		"billing.b": "service, http://billing-2.example/, 2000",
	}
	descriptors, err := descriptor.BuildAll(src, []string{"billing"})
	require.NoError(t, err)
	targets := descriptor.Targets(descriptors["billing"])

	var buf bytes.Buffer
	printTopology(&buf, descriptors)
	expected := "billing (2 targets)\n" +
		"  group ordered, 2 members\n" +
		"    " + hex(targets[0]) + " http://billing-1.example/ timeout=1s\n" +
		"    " + hex(targets[1]) + " http://billing-2.example/ timeout=2s\n"
	require.Equal(t, expected, buf.String())
}

func TestPrintReports(t *testing.T) {
	primary, err := descriptor.NewTargetDescriptor("tcp://primary.example:80/", time.Second)
	require.NoError(t, err)
	backup, err := descriptor.NewTargetDescriptor("tcp://backup.example:80/", time.Second)
	require.NoError(t, err)
	group, err := descriptor.NewGroupDescriptor(descriptor.Ordered, descriptor.Members(primary, backup))
	require.NoError(t, err)
	sc, err := caller.NewServiceCaller(group, probe.New(probe.DefaultConfig(), nil))
	require.NoError(t, err)

	reports := []probe.Report{
		{
			Call: 0,
			Result: &caller.CallResult{
				SucceededTarget: backup,
				Result:          "10.0.0.2:80",
				FailedTargets:   []*descriptor.TargetDescriptor{primary},
				Failures:        []caller.FailureInfo{caller.NewFailureInfo(caller.KindConnection, "refused", nil)},
			},
		},
		{Call: 1, Err: errors.New("call failed after trying 2 target(s)")},
	}
	var buf bytes.Buffer
	failed := printReports(&buf, sc, reports)
	require.Equal(t, 1, failed)
	require.Equal(t, "call 0: tcp://backup.example:80/ answered (10.0.0.2:80)\n"+
		"  skipped tcp://primary.example:80/: connection: refused\n"+
		"call 1: FAILED call failed after trying 2 target(s)\n", buf.String())
}

func TestGenerateConfigSchema(t *testing.T) {
	data, err := generateConfigSchema()
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	require.Equal(t, schemaID, schema["$id"])
	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, section := range []string{"Log", "Descriptors", "Caller", "Probe", "Journal", "Introspection", "Prometheus", "Profiling"} {
		require.Contains(t, properties, section)
	}
}

func hex(t *descriptor.TargetDescriptor) string {
	return fmt.Sprintf("%08x", t.Fingerprint())
}
