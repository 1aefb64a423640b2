package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/courseshop/internal/app/api/server"
	"github.com/fatflowers/courseshop/internal/app/service/planadmin"
	"github.com/fatflowers/courseshop/internal/app/service/planlog"
	"github.com/fatflowers/courseshop/internal/app/service/reconcile"
	"github.com/fatflowers/courseshop/internal/app/service/statistics"
	"github.com/fatflowers/courseshop/internal/app/service/subscription"
	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	"github.com/fatflowers/courseshop/internal/platform/db"
	"github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// Services is the domain layer without any transport. The CLI runs on it
// directly; the API adds the HTTP server.
var Services = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	userplan.Module,
	planlog.Module,
	subscription.Module,
	reconcile.Module,
	planadmin.Module,
	statistics.Module,
)

var Module = fx.Options(
	Services,
	server.Module,
)
