package editing

import "fmt"

// Key identifies one editable field of one remote entity, e.g. the
// description of node "n1". At most one edit session exists per key.
type Key struct {
	EntityID string
	FieldID  string
}

// NewKey creates a Key for the given entity and field.
func NewKey(entityID, fieldID string) Key {
	return Key{EntityID: entityID, FieldID: fieldID}
}

// String returns the key in "entity/field" form, used in logs and errors.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.EntityID, k.FieldID)
}

// IsZero reports whether the key is the zero value.
func (k Key) IsZero() bool {
	return k.EntityID == "" && k.FieldID == ""
}
