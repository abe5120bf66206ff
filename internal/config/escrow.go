package config

import "time"

type Escrow struct {
	// Storage выбирает бэкенд долговременного хранилища: postgres, redis
	// или memory.
	Storage     string        `env:"ESCROW_STORAGE" envDefault:"postgres"`
	OperatorID  string        `env:"ESCROW_OPERATOR_ID,notEmpty"`
	LockTimeout time.Duration `env:"ESCROW_LOCK_TIMEOUT" envDefault:"3s"`
}
