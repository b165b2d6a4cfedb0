package veil

// Cloner allows types to provide deep copy logic.
// Implementing this interface is required for use with Processor.
//
// Write and Conceal hide fields on a clone, so the caller's value is
// never modified. For types containing pointers, slices, or maps, copy
// these as well:
//
//	func (m Message) Clone() Message {
//	    tags := make([]string, len(m.Tags))
//	    copy(tags, m.Tags)
//	    return Message{ID: m.ID, Tags: tags}
//	}
type Cloner[T any] interface {
	Clone() T
}
