package config

import "time"

// NotificationsConfig tunes the notification channel.
type NotificationsConfig struct {
	// SnapshotLimit caps how many notifications a snapshot fetch returns.
	SnapshotLimit int `env:"SNAPSHOT_LIMIT" envDefault:"100"`

	// ChannelPrefix is the Redis pub/sub channel prefix for per-user feeds.
	ChannelPrefix string `env:"CHANNEL_PREFIX" envDefault:"notify:user:"`

	// BufferSize is the per-subscriber delivery buffer.
	BufferSize int `env:"BUFFER_SIZE" envDefault:"64"`

	// RetryBase is the first mark-read retry delay; doubles per attempt.
	RetryBase time.Duration `env:"RETRY_BASE" envDefault:"500ms"`

	// RetryMax bounds retry attempts per failed persistence call.
	RetryMax int `env:"RETRY_MAX" envDefault:"5"`
}

// Sanitize applies guardrails to notification configuration values.
func (n *NotificationsConfig) Sanitize() {
	if n.SnapshotLimit <= 0 {
		n.SnapshotLimit = 100
	}
	if n.ChannelPrefix == "" {
		n.ChannelPrefix = "notify:user:"
	}
	if n.BufferSize <= 0 {
		n.BufferSize = 64
	}
	if n.RetryBase <= 0 {
		n.RetryBase = 500 * time.Millisecond
	}
	if n.RetryMax <= 0 {
		n.RetryMax = 5
	}
}
