package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Init verifies the store is reachable and applies the schema.
func Init(cn *Connector, l *zap.Logger) error {
	ctx := context.Background()

	c, err := cn.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer c.Close()

	l.Info("database connection established", zap.String("dialect", cn.Dialect().Name()))

	if err := ApplySchema(ctx, c, l); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	l.Info("database schema applied")
	return nil
}
