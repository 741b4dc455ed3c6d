package server

import (
	"fmt"
	"log/slog"

	"student-data-system/config"
	"student-data-system/internal/global/archive"
	"student-data-system/internal/global/cache"
	"student-data-system/internal/global/database"
	"student-data-system/internal/global/logger"
	"student-data-system/internal/global/middleware"
	"student-data-system/internal/module"
	"student-data-system/internal/module/auth"
	"student-data-system/internal/module/ping"
	"student-data-system/internal/module/stats"
	"student-data-system/internal/module/student"
	"student-data-system/internal/store"
	"student-data-system/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

var modules []module.Module

// Init wires the process: config, logger, database, redis, and the
// feature modules with their dependencies.
func Init() {
	config.Init()
	log = logger.New("Server")

	db := database.Init()
	rdb := cache.Init()
	if rdb == nil {
		log.Info("redis not configured, cache and login throttle disabled")
	}
	arc := archive.New(config.Get().Archive)

	recordStore := store.New(db)

	modules = []module.Module{
		ping.New(),
		auth.New(recordStore, rdb),
		student.New(recordStore, rdb, arc),
		stats.New(recordStore, rdb),
	}

	for _, m := range modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	for _, m := range modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
