package matching

import "sort"

// Contract is the set of query parameter names a route expects.
//
// Comparison is by set: the request must carry every declared name and no
// other, in any order. Repeated names in the declaration count once.
type Contract struct {
	declared bool
	names    map[string]struct{}
}

// NewContract builds a contract from the declared names. A nil slice means
// the route declares nothing and every request satisfies it; an empty,
// non-nil slice means the request must carry no parameters.
func NewContract(names []string) Contract {
	if names == nil {
		return Contract{}
	}
	c := Contract{declared: true, names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		c.names[n] = struct{}{}
	}
	return c
}

// Declared reports whether the route declared any expectation at all.
func (c Contract) Declared() bool {
	return c.declared
}

// Satisfied reports whether params carries exactly the declared names.
func (c Contract) Satisfied(params map[string]string) bool {
	if !c.declared {
		return true
	}
	if len(params) != len(c.names) {
		return false
	}
	for k := range params {
		if _, ok := c.names[k]; !ok {
			return false
		}
	}
	return true
}

// Diff returns the declared names missing from params and the names in
// params that were not declared, both sorted.
func (c Contract) Diff(params map[string]string) (missing, unexpected []string) {
	if !c.declared {
		return nil, nil
	}
	for n := range c.names {
		if _, ok := params[n]; !ok {
			missing = append(missing, n)
		}
	}
	for k := range params {
		if _, ok := c.names[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return missing, unexpected
}

// Names returns the declared names, sorted.
func (c Contract) Names() []string {
	out := make([]string, 0, len(c.names))
	for n := range c.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
