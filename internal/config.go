package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BufferSize        int    `env:"BUFFER_SIZE,required=true"`
	SessionBufferSize int    `env:"SESSION_BUFFER_SIZE,required=true"`
	NumberOfWorkers   int    `env:"NUMBER_OF_WORKERS,required=true"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,required=true"`
	LimitMessages     *int   `env:"LIMIT_MESSAGES"`
	ChatWindow        int    `env:"CHAT_WINDOW,required=true"`

	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,required=true"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,required=true"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true"`

	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`

	SearchBatchSize     int           `env:"SEARCH_BATCH_SIZE,required=true"`
	SearchBufferTimeout time.Duration `env:"SEARCH_BUFFER_TIMEOUT,required=true"`

	PeerDrawInterval   time.Duration `env:"PEER_DRAW_INTERVAL,required=true"`
	PeerCursorInterval time.Duration `env:"PEER_CURSOR_INTERVAL,required=true"`

	DebugPort int `env:"DEBUG_PORT"`
}

// CharacterRune validates that the configured replacement is exactly one
// character. Multi-rune values would desync the masked length.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
