package phenotype

import (
	"slices"

	"genepri/pkg/domain"
)

// NetworkCollection holds independent networks keyed by their root.
type NetworkCollection struct {
	networks map[domain.Key]*Network
}

// NewNetworkCollection returns an empty collection.
func NewNetworkCollection() *NetworkCollection {
	return &NetworkCollection{networks: make(map[domain.Key]*Network)}
}

// Add stores n, replacing any network with the same root. It reports whether
// the root was new.
func (c *NetworkCollection) Add(n *Network) bool {
	k := n.Root().Key()
	_, existed := c.networks[k]
	c.networks[k] = n
	return !existed
}

// Remove drops the network rooted at root.
func (c *NetworkCollection) Remove(root domain.Phenotype) bool {
	k := root.Key()
	if _, ok := c.networks[k]; !ok {
		return false
	}
	delete(c.networks, k)
	return true
}

// RemoveNetwork drops n if it is the network stored for its root.
func (c *NetworkCollection) RemoveNetwork(n *Network) bool {
	k := n.Root().Key()
	if stored, ok := c.networks[k]; !ok || stored != n {
		return false
	}
	delete(c.networks, k)
	return true
}

// Network returns the network rooted at root.
func (c *NetworkCollection) Network(root domain.Phenotype) (*Network, bool) {
	n, ok := c.networks[root.Key()]
	return n, ok
}

// Len returns the number of networks.
func (c *NetworkCollection) Len() int { return len(c.networks) }

// Roots returns the roots ordered by code.
func (c *NetworkCollection) Roots() []domain.Phenotype {
	out := make([]domain.Phenotype, 0, len(c.networks))
	for _, n := range c.networks {
		out = append(out, n.Root())
	}
	slices.SortFunc(out, domain.Phenotype.Compare)
	return out
}

// Networks returns the networks ordered by root code.
func (c *NetworkCollection) Networks() []*Network {
	out := make([]*Network, 0, len(c.networks))
	for _, root := range c.Roots() {
		out = append(out, c.networks[root.Key()])
	}
	return out
}

// AllPhenotypes returns the union of every network's phenotypes ordered by
// code. It is computed on each call so it reflects later inserts, adds and
// removes.
func (c *NetworkCollection) AllPhenotypes() []domain.Phenotype {
	union := make(map[domain.Key]domain.Phenotype)
	for _, n := range c.networks {
		for k, p := range n.phenotypes {
			union[k] = p
		}
	}
	out := make([]domain.Phenotype, 0, len(union))
	for _, p := range union {
		out = append(out, p)
	}
	slices.SortFunc(out, domain.Phenotype.Compare)
	return out
}
