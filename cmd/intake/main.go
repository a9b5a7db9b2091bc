package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/thinkzo/intake/internal/config"
	"github.com/thinkzo/intake/internal/migration"
	"github.com/thinkzo/intake/internal/observability"
	"github.com/thinkzo/intake/internal/server"
	"github.com/thinkzo/intake/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
