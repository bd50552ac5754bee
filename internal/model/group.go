package model

const (
	GroupSelect      = "select"
	GroupLoadBalance = "load-balance"
)

// Group is one entry of the emitted proxy-groups list.
//
// A select group carries an explicit member list. A load-balance group
// carries either an explicit member list or IncludeAll+Filter, never both;
// the synthesizer enforces this. Optional fields use omitempty so unset
// attributes disappear from the output instead of showing up as null.
type Group struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Proxies is a pointer so an empty member list still serializes as
	// `proxies: []`: a select group must always carry the key (clients
	// reject a selector without one), while include-all load-balance
	// groups leave it nil and the key disappears.
	Proxies *[]string `yaml:"proxies,omitempty"`

	IncludeAll bool   `yaml:"include-all,omitempty"`
	Filter     string `yaml:"filter,omitempty"`

	// Probe policy for load-balance groups.
	URL      string `yaml:"url,omitempty"`
	Interval int    `yaml:"interval,omitempty"`
	Strategy string `yaml:"strategy,omitempty"`
}
