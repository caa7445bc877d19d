package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall/caller"
	"github.com/xinsproject/servicecall/config/types"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/journal"
	"github.com/xinsproject/servicecall/log"
	"github.com/xinsproject/servicecall/pprof"
	"github.com/xinsproject/servicecall/probe"
	"github.com/xinsproject/servicecall/prometheus"
)

const (
	// FlagCfg is the flag for cfg.
	FlagCfg = "cfg"
	// FlagSaveConfigPath is the flag to save the final configuration file
	FlagSaveConfigPath = "save-config-path"
	// FlagDisableDefaultConfigVars is the flag to force all variables to be set on config-files
	FlagDisableDefaultConfigVars = "disable-default-config-vars"
	// FlagAllowDeprecatedFields is the flag to allow deprecated fields
	FlagAllowDeprecatedFields = "allow-deprecated-fields"

	EnvVarPrefix       = "SERVICECALL"
	ConfigType         = "toml"
	SaveConfigFileName = "servicecall_config.toml"

	DefaultCreationFilePermissions = os.FileMode(0600)

	callerRetriesDeprecated = "Caller.Retries is deprecated, " +
		"use Caller.Retry.MaxAttempts instead"
	journalPathDeprecated     = "Journal.Path is deprecated, use Journal.DBPath instead"
	descriptorsFileDeprecated = "Descriptors.File is deprecated, " +
		"use Descriptors.PropertiesFile instead"
	metricsSectionDeprecated = "The Metrics section is deprecated, use Prometheus instead"
)

type DeprecatedFieldsError struct {
	// key is the rule and the value is the field's name that matches the rule
	Fields map[DeprecatedField][]string
}

func NewErrDeprecatedFields() *DeprecatedFieldsError {
	return &DeprecatedFieldsError{
		Fields: make(map[DeprecatedField][]string),
	}
}

func (e *DeprecatedFieldsError) AddDeprecatedField(fieldName string, rule DeprecatedField) {
	p := e.Fields[rule]
	e.Fields[rule] = append(p, fieldName)
}

func (e *DeprecatedFieldsError) Error() string {
	res := "found deprecated fields:"
	for rule, fieldsMatches := range e.Fields {
		res += fmt.Sprintf("\n\t- %s: %s", rule.Reason, strings.Join(fieldsMatches, ", "))
	}
	return res
}

type DeprecatedField struct {
	// If the field name ends with a dot means that match a section
	FieldNamePattern string
	Reason           string
}

var (
	deprecatedFieldsOnConfig = []DeprecatedField{
		{
			FieldNamePattern: "Caller.Retries",
			Reason:           callerRetriesDeprecated,
		},
		{
			FieldNamePattern: "Journal.Path",
			Reason:           journalPathDeprecated,
		},
		{
			FieldNamePattern: "Descriptors.File",
			Reason:           descriptorsFileDeprecated,
		},
		{
			FieldNamePattern: "Metrics.",
			Reason:           metricsSectionDeprecated,
		},
	}
)

/*
Config represents the configuration of the servicecall tools
The file is [TOML format]

[TOML format]: https://en.wikipedia.org/wiki/TOML
*/
type Config struct {
	// Configure Log level for all the services, allow also to store the logs in a file
	Log log.Config

	// Descriptors is the topology of the services that can be called
	Descriptors DescriptorsConfig

	// Caller is the configuration of the fail-over caller
	Caller CallerConfig

	// Probe is the configuration of the probe command
	Probe probe.Config

	// Journal is the configuration of the sqlite call journal
	Journal journal.Config

	// Introspection is the configuration of the admin HTTP service
	Introspection IntrospectionConfig

	// Prometheus is the configuration of the prometheus service
	Prometheus prometheus.Config

	// Profiling is the configuration of the profiling service
	Profiling pprof.Config
}

// DescriptorsConfig tells where the descriptor properties are read from
type DescriptorsConfig struct {
	// PropertiesFile is a Java properties file, optional
	PropertiesFile string `mapstructure:"PropertiesFile"`
	// Inline are "key = value" property lines applied over PropertiesFile
	Inline []string `mapstructure:"Inline"`
	// Roots are the keys of the descriptors to build
	Roots []string `mapstructure:"Roots"`
}

// Source merges the properties file and the inline properties
func (c DescriptorsConfig) Source() (descriptor.PropertySource, error) {
	props, err := descriptor.LoadPropertiesString("")
	if err != nil {
		return nil, err
	}
	if c.PropertiesFile != "" {
		props, err = descriptor.LoadPropertiesFile(c.PropertiesFile)
		if err != nil {
			return nil, err
		}
	}
	if len(c.Inline) > 0 {
		inline, err := descriptor.LoadPropertiesString(strings.Join(c.Inline, "\n"))
		if err != nil {
			return nil, err
		}
		props.Merge(inline)
	}
	return props, nil
}

// Build builds every root descriptor
func (c DescriptorsConfig) Build() (map[string]descriptor.Descriptor, error) {
	if len(c.Roots) == 0 {
		return nil, errors.New("no descriptor roots configured (Descriptors.Roots)")
	}
	src, err := c.Source()
	if err != nil {
		return nil, err
	}
	return descriptor.BuildAll(src, c.Roots)
}

// CallerConfig is the configuration of the fail-over caller
type CallerConfig struct {
	// Retry controls how many fail-over rounds are made
	Retry caller.RetryConfig `mapstructure:"Retry"`
}

// IntrospectionConfig is the configuration of the admin HTTP service
type IntrospectionConfig struct {
	// Enabled starts the service on the run command
	Enabled bool `mapstructure:"Enabled"`
	// Host is the address to bind the service
	Host string `mapstructure:"Host"`
	// Port is the port to bind the service
	Port int `mapstructure:"Port"`
	// ReadTimeout is the HTTP server read timeout
	ReadTimeout types.Duration `mapstructure:"ReadTimeout"`
	// WriteTimeout is the HTTP server write timeout
	WriteTimeout types.Duration `mapstructure:"WriteTimeout"`
}

// Address returns host:port
func (c IntrospectionConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the sections that have constraints
func (c *Config) Validate() error {
	if err := c.Caller.Retry.Validate(); err != nil {
		return fmt.Errorf("invalid Caller section: %w", err)
	}
	if err := c.Probe.Validate(); err != nil {
		return fmt.Errorf("invalid Probe section: %w", err)
	}
	if err := c.Journal.Validate(); err != nil {
		return fmt.Errorf("invalid Journal section: %w", err)
	}
	return nil
}

// Load loads the configuration
func Load(ctx *cli.Context) (*Config, error) {
	configFilePath := ctx.StringSlice(FlagCfg)
	filesData, err := readFiles(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading files:  Err:%w", err)
	}
	saveConfigPath := ctx.String(FlagSaveConfigPath)
	defaultConfigVars := !ctx.Bool(FlagDisableDefaultConfigVars)
	allowDeprecatedFields := ctx.Bool(FlagAllowDeprecatedFields)
	return LoadFile(filesData, saveConfigPath, defaultConfigVars, allowDeprecatedFields)
}

func readFiles(files []string) ([]FileData, error) {
	result := make([]FileData, 0, len(files))
	for _, file := range files {
		fileContent, err := readFileToString(file)
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %s. Err:%w", file, err)
		}
		fileExtension := getFileExtension(file)
		if fileExtension != ConfigType {
			fileContent, err = convertFileToToml(fileContent, fileExtension)
			if err != nil {
				return nil, fmt.Errorf("error converting file: %s from %s to TOML. Err:%w", file, fileExtension, err)
			}
		}
		result = append(result, FileData{Name: file, Content: fileContent})
	}
	return result, nil
}

func getFileExtension(fileName string) string {
	return fileName[strings.LastIndex(fileName, ".")+1:]
}

// LoadFileFromString decodes an already rendered configuration
func LoadFileFromString(configFileData string, configType string) (*Config, error) {
	cfg := &Config{}
	err := loadString(cfg, configFileData, configType, true, EnvVarPrefix)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func SaveConfigToFile(cfg *Config, saveConfigPath string) error {
	marshaled, err := toml.Marshal(cfg)
	if err != nil {
		log.Errorf("Can't marshal config to toml. Err: %v", err)
		return err
	}
	return SaveDataToFile(saveConfigPath, "final config file", marshaled)
}

func SaveDataToFile(fullPath, reason string, data []byte) error {
	log.Infof("Writing %s to: %s", reason, fullPath)
	err := os.WriteFile(fullPath, data, DefaultCreationFilePermissions)
	if err != nil {
		err = fmt.Errorf("error writing %s to file %s. Err: %w", reason, fullPath, err)
		log.Error(err)
		return err
	}
	return nil
}

// LoadFile merges the defaults with files, renders the vars and decodes the result
func LoadFile(files []FileData, saveConfigPath string,
	setDefaultVars bool, allowDeprecatedFields bool) (*Config, error) {
	log.Infof("Loading configuration: saveConfigPath: %s, setDefaultVars: %t, allowDeprecatedFields: %t",
		saveConfigPath, setDefaultVars, allowDeprecatedFields)
	fileData := make([]FileData, 0)
	if setDefaultVars {
		log.Info("Setting default vars")
		fileData = append(fileData, FileData{Name: "default_mandatory_vars", Content: DefaultMandatoryVars})
	}
	fileData = append(fileData, FileData{Name: "default_vars", Content: DefaultVars})
	fileData = append(fileData, FileData{Name: "default_values", Content: DefaultValues})
	fileData = append(fileData, files...)

	merger := NewConfigRender(fileData, EnvVarPrefix)

	renderedCfg, err := merger.Render()
	if err != nil {
		return nil, err
	}
	if saveConfigPath != "" {
		fullPath := filepath.Join(saveConfigPath, fmt.Sprintf("%s.merged", SaveConfigFileName))
		err = SaveDataToFile(fullPath, "merged config file", []byte(renderedCfg))
		if err != nil {
			return nil, err
		}
	}
	cfg, err := LoadFileFromString(renderedCfg, ConfigType)
	// If allowDeprecatedFields is true, we ignore the deprecated fields
	if err != nil && allowDeprecatedFields {
		var customErr *DeprecatedFieldsError
		if errors.As(err, &customErr) {
			log.Warnf("detected deprecated fields: %s", err.Error())
			err = nil
		}
	}

	if err != nil {
		return nil, err
	}
	if saveConfigPath != "" {
		fullPath := filepath.Join(saveConfigPath, SaveConfigFileName)
		err = SaveConfigToFile(cfg, fullPath)
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadString(cfg *Config, configData string, configType string,
	allowEnvVars bool, envPrefix string) error {
	v := viper.New()
	v.SetConfigType(configType)
	if allowEnvVars {
		replacer := strings.NewReplacer(".", "_")
		v.SetEnvKeyReplacer(replacer)
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
	}
	err := v.ReadConfig(bytes.NewBuffer([]byte(configData)))
	if err != nil {
		return err
	}
	decodeHooks := []viper.DecoderConfigOption{
		// this allows arrays to be decoded from env var separated by ",", example: MY_VAR="value1,value2,value3"
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)),
	}

	err = v.Unmarshal(&cfg, decodeHooks...)
	if err != nil {
		return err
	}
	configKeys := v.AllKeys()
	err = checkDeprecatedFields(configKeys)
	if err != nil {
		return err
	}

	return nil
}

func checkDeprecatedFields(keysOnConfig []string) error {
	err := NewErrDeprecatedFields()
	for _, key := range keysOnConfig {
		forbbidenInfo := getDeprecatedField(key)
		if forbbidenInfo != nil {
			err.AddDeprecatedField(key, *forbbidenInfo)
		}
	}
	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

func getDeprecatedField(fieldName string) *DeprecatedField {
	for _, deprecatedField := range deprecatedFieldsOnConfig {
		if strings.EqualFold(deprecatedField.FieldNamePattern, fieldName) {
			return &deprecatedField
		}
		// If the field name ends with a dot, it means FieldNamePattern*
		if strings.HasSuffix(deprecatedField.FieldNamePattern, ".") &&
			strings.HasPrefix(strings.ToLower(fieldName), strings.ToLower(deprecatedField.FieldNamePattern)) {
			return &deprecatedField
		}
	}
	return nil
}
