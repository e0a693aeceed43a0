package core

import (
	"sort"
	"strings"
)

// DefaultCustomerIDs is the accepted customer list used when none is configured.
var DefaultCustomerIDs = []string{
	"HFCUSD",
	"HFINC",
	"HFKOREA",
	"HYDBRZ",
	"BOSOIL",
	"BOSOIL2",
	"BOSCHH",
	"BOSCHCH",
	"BRUEN",
	"BREXAU",
	"REXRO",
	"BREXSA",
	"BOSCHNURN",
}

// CustomerSet is an immutable set of accepted customer identifiers.
// Membership is exact and case-sensitive.
type CustomerSet struct {
	ids map[string]struct{}
}

// NewCustomerSet builds a set from ids. Surrounding whitespace is trimmed
// and empty entries are ignored.
func NewCustomerSet(ids ...string) CustomerSet {
	set := CustomerSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set.ids[id] = struct{}{}
	}
	return set
}

// DefaultCustomers returns the set built from DefaultCustomerIDs.
func DefaultCustomers() CustomerSet {
	return NewCustomerSet(DefaultCustomerIDs...)
}

// Contains reports whether id is in the set.
func (c CustomerSet) Contains(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// Len returns the number of customers.
func (c CustomerSet) Len() int {
	return len(c.ids)
}

// IDs returns the customers sorted alphabetically.
func (c CustomerSet) IDs() []string {
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// String joins the IDs for log messages.
func (c CustomerSet) String() string {
	return strings.Join(c.IDs(), ", ")
}
