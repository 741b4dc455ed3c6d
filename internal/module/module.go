package module

import (
	"github.com/gin-gonic/gin"
)

// Module is one feature unit. Modules are constructed with their
// dependencies (store, redis, ...) in cmd/server and mounted in order.
type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}
