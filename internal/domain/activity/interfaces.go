package activity

// Notifier receives every entry after it has been stored.
type Notifier interface {
	Publish(entry Entry)
}
