package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall/config"
)

const schemaID = "https://github.com/xinsproject/servicecall/config"

func configSchema(*cli.Context) error {
	schema, err := generateConfigSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(schema))
	return err
}

func generateConfigSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:              "mapstructure",
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(&config.Config{})
	schema.ID = schemaID
	schema.Title = "servicecall configuration"
	return json.MarshalIndent(schema, "", "  ")
}
