package httpapi

import (
	"database/sql"
	"sync/atomic"

	"go.uber.org/zap"

	"footin-engine/internal/config"
	"footin-engine/internal/events"
	"footin-engine/internal/workflow"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.Logger

	Controller *workflow.Controller

	// Atomic store, holds config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

func (d Deps) cfg() config.Config {
	return d.CfgVal.Load().(config.Config)
}
