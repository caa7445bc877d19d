package config

// This values doesnt have a default value because depend on the
// environment / deployment
const DefaultMandatoryVars = `
# Java properties file with the descriptor topology
DescriptorsFile = ""
`

// This doesnt below to config, but are the vars used
// to avoid repetition in config-files
const DefaultVars = `
PathRWData = "/tmp/servicecall"
`

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development" # "production" or "development"
Level = "info"
Outputs = ["stderr"]

[Descriptors]
PropertiesFile = "{{DescriptorsFile}}"
# Extra "key = value" lines, they override the properties file
Inline = []
Roots = []

[Caller]
	[Caller.Retry]
		MaxAttempts = 3
		InitialDelay = "200ms"

[Probe]
DialTimeout = "3s"
Attempts = 1
Concurrency = 1
	[Probe.RateLimit]
		NumRequests = 0
		Interval = "1s"

[Journal]
Enabled = true
DBPath = "{{PathRWData}}/journal.sqlite"
RecentCallsLimit = 50
RequireStorageContentCompatibility = false

[Introspection]
Enabled = true
Host = "localhost"
Port = 5580
ReadTimeout = "2s"
WriteTimeout = "2s"

[Prometheus]
Enabled = true
Host = "localhost"
Port = 9091

[Profiling]
ProfilingHost = "localhost"
ProfilingPort = 6060
ProfilingEnabled = false
`
