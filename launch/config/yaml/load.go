package yamlconfig

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
)

// Load parses the yaml source into config.LocalNode and fills the defaults.
// The loaded config is stored in the returned context.
func Load(ctx context.Context, source []byte) (context.Context, config.LocalNode, error) {
	var yconf LocalNode
	if err := yaml.Unmarshal(source, &yconf); err != nil {
		return ctx, nil, errors.Wrap(err, "failed to parse yaml config")
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(source, &m); err != nil {
		return ctx, nil, errors.Wrap(err, "failed to parse yaml config")
	}

	conf := config.NewBaseLocalNode(m)
	ctx = context.WithValue(ctx, config.ContextValueConfig, config.LocalNode(conf))

	ctx, err := yconf.Set(ctx)
	if err != nil {
		return ctx, nil, err
	}

	cc, err := config.NewChecker(ctx)
	if err != nil {
		return ctx, nil, err
	}

	if err := cc.Check(); err != nil {
		return ctx, nil, err
	}

	return cc.Context(), conf, nil
}
