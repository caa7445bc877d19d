package descriptor

import (
	"fmt"

	"github.com/magiconair/properties"
)

// LoadPropertiesFile reads a descriptor configuration in the Java properties format
func LoadPropertiesFile(path string) (*properties.Properties, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("error loading descriptor properties from %s: %w", path, err)
	}
	p.DisableExpansion = true
	return p, nil
}

// LoadPropertiesString parses a descriptor configuration in the Java properties format
func LoadPropertiesString(text string) (*properties.Properties, error) {
	p, err := properties.LoadString(text)
	if err != nil {
		return nil, fmt.Errorf("error parsing descriptor properties: %w", err)
	}
	p.DisableExpansion = true
	return p, nil
}
