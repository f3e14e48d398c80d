package fsm

// RootConfig is the transition table as written in a config file
type RootConfig struct {
	Initial string                  `json:"initial" mapstructure:"initial"`
	States  map[string]*StateConfig `json:"states" mapstructure:"states"`
}

// StateConfig lists the states one state may move to
type StateConfig struct {
	Transitions []string `json:"transitions" mapstructure:"transitions"`
}
