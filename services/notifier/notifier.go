package notifier

// Notifier delivers a deal alert to one channel
type Notifier interface {
	// Notify sends a message; implementations must not block indefinitely
	Notify(subject, body string) error

	// Close releases the channel's resources
	Close() error
}
