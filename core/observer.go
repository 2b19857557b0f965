package core

// Observer receives a pushed stream of entries. After OnCompleted or
// OnError has been delivered no further notifications follow.
type Observer interface {
	// OnNext delivers the next entry in the stream.
	OnNext(e Entry)

	// OnCompleted signals that the stream has ended normally.
	OnCompleted()

	// OnError signals that the stream has ended with a failure.
	OnError(err error)
}

// Observable is a source of entries that observers can attach to.
type Observable interface {
	// Subscribe registers an observer and returns a handle that removes it.
	Subscribe(o Observer) Subscription
}

// Subscription is the handle returned by Subscribe. Unsubscribe removes
// exactly the registration it was returned for and is safe to call any
// number of times.
type Subscription interface {
	Unsubscribe()
}
