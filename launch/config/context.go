package config

import (
	"context"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

var (
	ContextValueConfig util.ContextKey = "config"
	ContextValueLog    util.ContextKey = "log"
)

func LoadConfigContextValue(ctx context.Context, l *LocalNode) error {
	return util.LoadFromContextValue(ctx, ContextValueConfig, l)
}

func LoadLogContextValue(ctx context.Context, l **logging.Logging) error {
	return util.LoadFromContextValue(ctx, ContextValueLog, l)
}
