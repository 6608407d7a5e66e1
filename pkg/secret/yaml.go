package secret

// yamlPattern is the intermediate struct for parsing catalog YAML.
type yamlPattern struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category string   `yaml:"category,omitempty"`
	Pattern  string   `yaml:"pattern"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// yamlPatternsFile is the top-level structure of a catalog YAML file.
type yamlPatternsFile struct {
	Patterns []yamlPattern `yaml:"patterns"`
}
