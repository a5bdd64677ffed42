package devserver

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadScenarioList reads a YAML file listing scenario display
// metadata (see ScenarioConfig). A missing file is not an error:
// callers fall back to BuiltinScenarios' own descriptions.
func LoadScenarioList(path string) (*ScenarioList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScenarioList{}, nil
		}
		return nil, err
	}
	var list ScenarioList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
