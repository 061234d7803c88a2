package transport

import "time"

// Settings is the configuration bundle handed to a builder.
//
// The bundle is one explicit struct rather than a shared container: every
// dependency a builder consumes is visible at the factory call site. Each
// kind documents which fields it reads; fields a kind does not recognize
// are ignored.
type Settings struct {
	// APIKey authenticates against backends that require credentials (push).
	APIKey string
	// URL is the backend endpoint (push optional, webhook and redis required).
	URL string
	// Channel is the redis pub/sub channel.
	Channel string
	// Bucket and Region select the S3 destination.
	Bucket string
	Region string
	// Prefix is the S3 key prefix.
	Prefix string
	// Path is the spool journal directory.
	Path string
	// Headers are extra HTTP headers (webhook, push).
	Headers map[string]string
	// Timeout bounds a single native call. Zero means the kind's default.
	Timeout time.Duration
	// Retries is the retry attempt count for retriable kinds.
	// Nil means the kind's default.
	Retries *int
}

// RetriesOrDefault resolves the retry count against a kind default.
func (s Settings) RetriesOrDefault(def int) int {
	if s.Retries == nil {
		return def
	}
	return *s.Retries
}
