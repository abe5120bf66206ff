package config

type Bot struct {
	Enabled            bool   `env:"BOT_ENABLED" envDefault:"false"`
	Token              string `env:"BOT_TOKEN" json:"-"`
	// ChatID — чат, куда уходят уведомления о переходах сделок.
	ChatID             int64  `env:"BOT_CHAT_ID"`
	OperatorID         int64  `env:"BOT_OPERATOR_ID"`
	PollTimeoutSeconds int    `env:"BOT_POLL_TIMEOUT_SECONDS" envDefault:"30"`
}
