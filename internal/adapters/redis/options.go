package redis

import "github.com/visitrack/frontdesk/internal/cryptoutil"

// Option configures a Redis store.
type Option func(*storeOptions)

type storeOptions struct {
	sealer cryptoutil.Sealer
}

// WithSealer encrypts stored values. Each value is bound to its key.
func WithSealer(s cryptoutil.Sealer) Option {
	return func(o *storeOptions) {
		if s != nil {
			o.sealer = s
		}
	}
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{sealer: cryptoutil.Plaintext{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
