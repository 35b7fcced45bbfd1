package db

import (
	"context"

	"go.uber.org/zap"
)

// CheckAlive probes the connection with SELECT 1. When the probe fails it
// reconnects once; if that also fails the client is left disconnected and
// ErrNoConnection is returned.
func (c *Client) CheckAlive(ctx context.Context) error {
	rows, err := c.Execute(ctx, "SELECT 1", nil, Silent())
	if err == nil && len(rows) > 0 {
		return nil
	}

	c.l.Warn("database connection lost, reconnecting", zap.Error(err))

	if rerr := c.reconnect(ctx); rerr != nil {
		c.l.Error("failed to reconnect to database",
			zap.String("severity", "critical"),
			zap.Error(rerr),
		)
		return &Error{Kind: ErrNoConnection, Op: "check_alive", Err: rerr}
	}

	c.l.Info("database connection re-established")
	return nil
}

func (c *Client) reconnect(ctx context.Context) error {
	oldDB, oldConn := c.db, c.conn

	err := c.connect(ctx)

	// Old handles go only after the new one is up: an in-memory SQLite
	// store lives as long as its last handle.
	if oldConn != nil {
		oldConn.Close()
	}
	if oldDB != nil {
		oldDB.Close()
	}

	if err != nil {
		c.db = nil
		c.conn = nil
		return err
	}
	return nil
}
