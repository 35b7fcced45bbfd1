package db

import (
	"context"

	"github.com/gomantics/repotracker/config"
	"go.uber.org/zap"
)

// Connector opens clients against the configured store. It is the only
// long-lived database value in the application; every request or job opens
// its own Client and closes it when done.
type Connector struct {
	dialect Dialect
	dsn     string
	l       *zap.Logger
}

func NewConnector(cfg *config.Config, l *zap.Logger) (*Connector, error) {
	d, err := DialectByName(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	return &Connector{
		dialect: d,
		dsn:     cfg.DatabaseDSN(),
		l:       l.Named("db"),
	}, nil
}

// Open returns a connected client.
func (cn *Connector) Open(ctx context.Context) (*Client, error) {
	return Open(ctx, cn.dialect, cn.dsn, cn.l)
}

func (cn *Connector) Dialect() Dialect {
	return cn.dialect
}
