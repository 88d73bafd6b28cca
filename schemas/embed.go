// Package schemas holds the JSON Schema documents shipped with framecraft.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// ComponentConfigFile is the schema for component config.json / config.yaml files.
const ComponentConfigFile = "component_config.schema.json"

// Read returns the named schema document.
func Read(name string) (string, error) {
	data, err := FS.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
