package utils

// AttributeMap is a general purpose map of attributes, typically the raw "attributes" object of a
// component in a JSON config.
type AttributeMap map[string]interface{}

// Has returns whether the name is present in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}
