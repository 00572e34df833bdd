package editing

import "context"

// ContentAdapter is implemented by the presentation layer. The store and
// the reconciler use it to push content into widgets imperatively,
// bypassing any reactive update path so programmatic writes are not
// mistaken for local edits.
type ContentAdapter interface {
	// ApplyContent replaces the widget content for key with value.
	ApplyContent(key Key, value string)

	// RestoreBaseline reverts the widget content for key to the given
	// baseline value after a cancel.
	RestoreBaseline(key Key, baseline string)
}

// Gateway is the persistence boundary. Save persists a single field value
// and blocks until the backend acknowledges or fails. Timeouts are the
// gateway's concern and surface as ordinary errors; the caller never
// retries automatically.
type Gateway interface {
	Save(ctx context.Context, entityID, fieldID, value string) error
}

// Codec converts between the widget's document representation and the
// plain string the backend persists. The editing core only ever sees the
// persisted form; the adapter applies the codec at the widget boundary.
type Codec interface {
	// Encode converts widget document content to the persisted form.
	Encode(doc string) string
	// Decode converts a persisted value to widget document content.
	Decode(persisted string) string
}

// PassthroughCodec is a Codec for widgets whose document form already is
// the persisted plain string.
type PassthroughCodec struct{}

// Encode returns doc unchanged.
func (PassthroughCodec) Encode(doc string) string { return doc }

// Decode returns persisted unchanged.
func (PassthroughCodec) Decode(persisted string) string { return persisted }
