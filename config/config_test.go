package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/log"
	"github.com/xinsproject/servicecall/probe"
)

func TestLExploratorySetConfigFlag(t *testing.T) {
	value := []string{"config.json", "another_config.json"}
	ctx := newCliContextConfigFlag(t, value...)
	configFilePath := ctx.StringSlice(FlagCfg)
	require.Equal(t, value, configFilePath)
}

func TestLoadDefaultConfig(t *testing.T) {
	file := writeConfigFile(t, "ut_config.toml", DefaultMandatoryVars)
	ctx := newCliContextConfigFlag(t, file)
	cfg, err := Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, log.EnvironmentDevelopment, cfg.Log.Environment)
	require.Equal(t, uint(3), cfg.Caller.Retry.MaxAttempts)
	require.Equal(t, 200*time.Millisecond, cfg.Caller.Retry.InitialDelay.Duration)
	require.Equal(t, 3*time.Second, cfg.Probe.DialTimeout.Duration)
	require.False(t, cfg.Probe.RateLimit.Enabled())
	require.True(t, cfg.Journal.Enabled)
	require.Equal(t, "/tmp/servicecall/journal.sqlite", cfg.Journal.DBPath)
	require.Equal(t, 50, cfg.Journal.RecentCallsLimit)
	require.Equal(t, "localhost:5580", cfg.Introspection.Address())
	require.Equal(t, 2*time.Second, cfg.Introspection.ReadTimeout.Duration)
	require.Equal(t, "localhost:9091", cfg.Prometheus.Address())
	require.Empty(t, cfg.Descriptors.PropertiesFile)
	require.False(t, cfg.Profiling.ProfilingEnabled)
	require.Equal(t, "localhost:6060", cfg.Profiling.Address())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverridesAndVars(t *testing.T) {
	file := writeConfigFile(t, "ut_config.toml", `
PathRWData = "/var/lib/servicecall"

[Descriptors]
Inline = ["billing = service, http://billing.example/, 1000"]
Roots = ["billing"]

[Caller.Retry]
MaxAttempts = 5

[Probe.RateLimit]
NumRequests = 10
Interval = "1m"
`)
	cfg, err := Load(newCliContextConfigFlag(t, file))
	require.NoError(t, err)
	require.Equal(t, "/var/lib/servicecall/journal.sqlite", cfg.Journal.DBPath)
	require.Equal(t, uint(5), cfg.Caller.Retry.MaxAttempts)
	require.Equal(t, 200*time.Millisecond, cfg.Caller.Retry.InitialDelay.Duration)
	require.Equal(t, probe.NewRateLimitConfig(10, time.Minute), cfg.Probe.RateLimit)

	descriptors, err := cfg.Descriptors.Build()
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	require.Equal(t, 1, descriptors["billing"].TargetCount())
}

func TestLoadConfigEnvVars(t *testing.T) {
	t.Setenv("SERVICECALL_JOURNAL_ENABLED", "false")
	t.Setenv("SERVICECALL_PathRWData", "/data")
	t.Setenv("SERVICECALL_DESCRIPTORS_ROOTS", "a,b")
	file := writeConfigFile(t, "ut_config.toml", "")
	cfg, err := Load(newCliContextConfigFlag(t, file))
	require.NoError(t, err)
	require.False(t, cfg.Journal.Enabled)
	require.Equal(t, "/data/journal.sqlite", cfg.Journal.DBPath)
	require.Equal(t, []string{"a", "b"}, cfg.Descriptors.Roots)
}

func TestLoadConfigFromJSON(t *testing.T) {
	file := writeConfigFile(t, "ut_config.json", `{"Prometheus": {"Port": 9999}, "Journal": {"Enabled": false}}`)
	cfg, err := Load(newCliContextConfigFlag(t, file))
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Prometheus.Port)
	require.False(t, cfg.Journal.Enabled)
}

func TestLoadConfigUnsupportedFormat(t *testing.T) {
	file := writeConfigFile(t, "ut_config.yaml", "Log: {}")
	_, err := Load(newCliContextConfigFlag(t, file))
	require.ErrorContains(t, err, "unsupported config format yaml")
}

func TestLoadConfigUndefinedVar(t *testing.T) {
	_, err := LoadFile(nil, "", false, false)
	require.ErrorContains(t, err, "config var DescriptorsFile is not defined")
}

func TestLoadConfigWithSaveConfigFile(t *testing.T) {
	file := writeConfigFile(t, "ut_config.toml", DefaultVars+"\n")
	ctx := newCliContextConfigFlag(t, file)
	dir := t.TempDir()

	err := ctx.Set(FlagSaveConfigPath, dir)
	require.NoError(t, err)
	cfg, err := Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	_, err = os.Stat(filepath.Join(dir, SaveConfigFileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, SaveConfigFileName+".merged"))
	require.NoError(t, err)

	saved, err := LoadFile([]FileData{{Name: "saved", Content: readFile(t, filepath.Join(dir, SaveConfigFileName))}},
		"", true, false)
	require.NoError(t, err)
	require.Equal(t, cfg.Journal, saved.Journal)
	require.Equal(t, cfg.Caller, saved.Caller)
}

func TestLoadConfigWithInvalidFilename(t *testing.T) {
	ctx := newCliContextConfigFlag(t, "invalid_file")
	cfg, err := Load(ctx)
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadConfigWithDeprecatedFields(t *testing.T) {
	content := `
	[Caller]
	Retries = 3

	[Journal]
	Path = "/tmp/journal.sqlite"

	[Descriptors]
	File = "descriptors.properties"

	[Metrics]
	Port = 9090
`
	file := writeConfigFile(t, "ut_config.toml", content)
	_, err := Load(newCliContextConfigFlag(t, file))
	require.Error(t, err)
	require.Contains(t, err.Error(), callerRetriesDeprecated)
	require.Contains(t, err.Error(), journalPathDeprecated)
	require.Contains(t, err.Error(), descriptorsFileDeprecated)
	require.Contains(t, err.Error(), metricsSectionDeprecated)

	cfg, err := LoadFile([]FileData{{Name: "deprecated", Content: content}}, "", true, true)
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestConfigValidate(t *testing.T) {
	cfg, err := LoadFile(nil, "", true, false)
	require.NoError(t, err)
	cfg.Caller.Retry.MaxAttempts = 0
	require.ErrorContains(t, cfg.Validate(), "invalid Caller section")

	cfg, err = LoadFile(nil, "", true, false)
	require.NoError(t, err)
	cfg.Journal.DBPath = ""
	require.ErrorContains(t, cfg.Validate(), "invalid Journal section")
}

func TestDescriptorsConfig(t *testing.T) {
	dir := t.TempDir()
	propsFile := filepath.Join(dir, "descriptors.properties")
	require.NoError(t, os.WriteFile(propsFile, []byte(`
search = group, random, a, b
search.a = service, http://search-1.example/, 500
search.b = service, http://search-2.example/, 500
`), 0o600))

	t.Run("file and inline", func(t *testing.T) {
		c := DescriptorsConfig{
			PropertiesFile: propsFile,
			Inline:         []string{"search.b = service, http://search-3.example/, 700"},
			Roots:          []string{"search"},
		}
		descriptors, err := c.Build()
		require.NoError(t, err)
		urls := []string{}
		for _, target := range descriptor.Targets(descriptors["search"]) {
			urls = append(urls, target.URL())
		}
		require.ElementsMatch(t, []string{"http://search-1.example/", "http://search-3.example/"}, urls)
	})

	t.Run("no roots", func(t *testing.T) {
		_, err := DescriptorsConfig{PropertiesFile: propsFile}.Build()
		require.ErrorContains(t, err, "no descriptor roots")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := DescriptorsConfig{PropertiesFile: filepath.Join(dir, "nope"), Roots: []string{"x"}}.Build()
		require.Error(t, err)
	})
}

func newCliContextConfigFlag(t *testing.T, values ...string) *cli.Context {
	t.Helper()
	flagSet := flag.NewFlagSet("test", flag.ContinueOnError)
	var configFilePaths cli.StringSlice
	flagSet.Var(&configFilePaths, FlagCfg, "")
	flagSet.Bool(FlagAllowDeprecatedFields, false, "")
	flagSet.Bool(FlagDisableDefaultConfigVars, false, "")
	flagSet.String(FlagSaveConfigPath, "", "")
	for _, value := range values {
		err := flagSet.Parse([]string{"--" + FlagCfg, value})
		require.NoError(t, err)
	}
	return cli.NewContext(nil, flagSet, nil)
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
