// Package autoload configures the global logger from LOG_* environment
// variables at import time.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/touchbase-labs/touchbase/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOG", &conf); err != nil {
		logx.Init()
		return
	}
	logx.Init(conf)
}
