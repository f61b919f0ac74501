package main

import "time"

type Settings struct {
	Port                   int           `env:"PORT,default=4101"`
	BasePath               string        `env:"BASE_PATH"`
	MJBaseURL              string        `env:"MJ_BASE_URL,default=http://localhost:4000"`
	PlayerId               string        `env:"PLAYER_ID,default=p1"`
	ChatHistorySize        int           `env:"CHAT_HISTORY_SIZE,default=200"`
	ChannelBufferSize      int           `env:"CHANNEL_BUFFER_SIZE,default=64"`
	KeepAliveInterval      time.Duration `env:"KEEPALIVE_INTERVAL,default=15s"`
	UpstreamReconnectDelay time.Duration `env:"UPSTREAM_RECONNECT_DELAY,default=1s"`
	UpstreamTimeout        time.Duration `env:"UPSTREAM_TIMEOUT,default=10s"`
	AllowedOrigins         string        `env:"ALLOWED_ORIGINS,default=*"`
	LogEncoding            string        `env:"LOG_ENCODING,default=console"`
}
