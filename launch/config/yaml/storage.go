package yamlconfig

import (
	"context"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
)

type Storage struct {
	Path *string `yaml:",omitempty"`
}

func (no Storage) Set(ctx context.Context) (context.Context, error) {
	var l config.LocalNode
	if err := config.LoadConfigContextValue(ctx, &l); err != nil {
		return ctx, err
	}

	if no.Path != nil {
		if err := l.Storage().SetPath(*no.Path); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}
