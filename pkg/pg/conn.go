package pg

import (
	"database/sql"
)

type Config struct {
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
	MaxOpen  int    `env:"MAX_OPEN_CONNS"`
}

func (c Config) maxOpen() int {
	if c.MaxOpen <= 0 {
		return 20
	}
	return c.MaxOpen
}

func newSqlConnection(config Config) (*sql.DB, error) {
	return sql.Open("postgres", config.dsn())
}
