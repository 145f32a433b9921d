package phenotype

// Level lists the phenotypes at one distance from a root.
type Level struct {
	Distance   int      `json:"distance" yaml:"distance"`
	Phenotypes []string `json:"phenotypes" yaml:"phenotypes"`
}

// Snapshot is an exported, order-stable copy of a Network.
type Snapshot struct {
	Root   string  `json:"root" yaml:"root"`
	Levels []Level `json:"levels" yaml:"levels"`
}

// Snapshot copies the network level by level.
func (n *Network) Snapshot() Snapshot {
	out := Snapshot{Root: n.root.Code()}
	for _, d := range n.Distances() {
		ps, _ := n.AtDistance(d)
		codes := make([]string, 0, len(ps))
		for _, p := range ps {
			codes = append(codes, p.Code())
		}
		out.Levels = append(out.Levels, Level{Distance: d, Phenotypes: codes})
	}
	return out
}

// Snapshot copies every network ordered by root.
func (c *NetworkCollection) Snapshot() []Snapshot {
	networks := c.Networks()
	out := make([]Snapshot, 0, len(networks))
	for _, n := range networks {
		out = append(out, n.Snapshot())
	}
	return out
}
