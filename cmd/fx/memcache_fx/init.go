package memcache_fx

import (
	"go.uber.org/fx"

	mem "github.com/AlexeiFed/waxhands-sub002/pkg/memcache"
)

var Module = fx.Provide(provideOpKeyStore)

func provideOpKeyStore() mem.OpKeyStore {
	return mem.NewOpKeys()
}
