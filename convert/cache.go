package convert

import (
	"github.com/teranos/standoff/normdb"
)

// entityCache collects global entities referenced during one conversion so
// each gets exactly one description block, in first-reference order.
type entityCache struct {
	order []string
	attrs map[string][]normdb.Attribute
}

func newEntityCache() *entityCache {
	return &entityCache{attrs: make(map[string][]normdb.Attribute)}
}

func (c *entityCache) has(id string) bool {
	_, ok := c.attrs[id]
	return ok
}

func (c *entityCache) add(id string, attrs []normdb.Attribute) {
	if c.has(id) {
		return
	}
	if attrs == nil {
		attrs = []normdb.Attribute{}
	}
	c.order = append(c.order, id)
	c.attrs[id] = attrs
}
