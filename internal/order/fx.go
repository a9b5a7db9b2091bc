package order

import (
	"github.com/thinkzo/intake/internal/order/repository"
	"github.com/thinkzo/intake/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
