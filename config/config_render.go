package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/valyala/fasttemplate"
)

const (
	templateStartTag = "{{"
	templateEndTag   = "}}"
	// nested vars ({{A}} = "{{B}}/x") are resolved up to this depth
	maxRenderPasses = 10
)

// FileData is the content of a configuration file
type FileData struct {
	Name    string
	Content string
}

// ConfigRender merges TOML files and renders the {{Var}} placeholders
type ConfigRender struct {
	// FilesData are merged in order, the last one wins
	FilesData []FileData
	// EnvironmentPrefix is used to override vars: {{Var}} is replaced by <prefix>_Var if set
	EnvironmentPrefix string
}

func NewConfigRender(filesData []FileData, envPrefix string) *ConfigRender {
	return &ConfigRender{
		FilesData:         filesData,
		EnvironmentPrefix: envPrefix,
	}
}

// Render returns the merged configuration as TOML with every var replaced
func (c *ConfigRender) Render() (string, error) {
	k, err := c.merge()
	if err != nil {
		return "", err
	}
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", fmt.Errorf("error marshaling merged config: %w", err)
	}
	rendered := string(data)
	for range maxRenderPasses {
		if !strings.Contains(rendered, templateStartTag) {
			return rendered, nil
		}
		rendered, err = fasttemplate.ExecuteFuncStringWithErr(rendered, templateStartTag, templateEndTag,
			func(w io.Writer, tag string) (int, error) {
				value, err := c.lookupVar(k, strings.TrimSpace(tag))
				if err != nil {
					return 0, err
				}
				return w.Write([]byte(value))
			})
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("config vars are still unresolved after %d passes", maxRenderPasses)
}

func (c *ConfigRender) merge() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for _, file := range c.FilesData {
		if err := k.Load(rawbytes.Provider([]byte(file.Content)), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error parsing config %s: %w", file.Name, err)
		}
	}
	return k, nil
}

func (c *ConfigRender) lookupVar(k *koanf.Koanf, name string) (string, error) {
	if c.EnvironmentPrefix != "" {
		if value, ok := os.LookupEnv(c.EnvironmentPrefix + "_" + name); ok {
			return value, nil
		}
	}
	if !k.Exists(name) {
		return "", fmt.Errorf("config var %s is not defined", name)
	}
	return fmt.Sprint(k.Get(name)), nil
}

func readFileToString(file string) (string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func convertFileToToml(fileData string, fileType string) (string, error) {
	if fileType != "json" {
		return "", fmt.Errorf("unsupported config format %s", fileType)
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(fileData)), json.Parser()); err != nil {
		return "", err
	}
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
