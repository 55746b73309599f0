package digger

import (
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/registry"
)

func init() {
	registry.Register(config.VariantGold, func() registry.Game {
		return New(config.VariantGold)
	})
	registry.Register(config.VariantCleanup, func() registry.Game {
		return New(config.VariantCleanup)
	})
}

var (
	_ registry.Game      = (*Game)(nil)
	_ registry.Resizer   = (*Game)(nil)
	_ registry.Closer    = (*Game)(nil)
	_ registry.AudioSink = (*Game)(nil)
)
