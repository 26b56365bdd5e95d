package types

// Change records the effect of one transform on one program unit.
type Change struct {
	Transform       string
	Filename        string
	Sites           int
	InsertedBinding string // set when the transform added a new import binding
}

// ConfigTransform holds the user-facing options for one transform entry in
// the configuration file. Empty fields fall back to the transform's defaults.
type ConfigTransform struct {
	Module string `yaml:"module,omitempty" json:"module,omitempty"`
	Phase  string `yaml:"phase,omitempty" json:"phase,omitempty"`
}
