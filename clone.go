package gdpr

// Cloner allows types to provide deep copy logic.
// Processor anonymizes a clone so the caller's value keeps its personal data.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. Anonymization writes through pointers,
// slices, and maps marked object or collection, so copy those:
//
//	func (o Order) Clone() Order {
//	    lines := make([]Line, len(o.Lines))
//	    copy(lines, o.Lines)
//	    return Order{ID: o.ID, Customer: o.Customer.Clone(), Lines: lines}
//	}
//
// Types with only value fields can return the receiver:
//
//	func (u User) Clone() User { return u }
type Cloner[T any] interface {
	Clone() T
}
