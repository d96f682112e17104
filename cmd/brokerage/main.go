package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/brokerage/internal/clock"
	"github.com/smallbiznis/brokerage/internal/config"
	"github.com/smallbiznis/brokerage/internal/logger"
	"github.com/smallbiznis/brokerage/internal/metrics"
	"github.com/smallbiznis/brokerage/internal/migration"
	"github.com/smallbiznis/brokerage/internal/server"
	"github.com/smallbiznis/brokerage/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
