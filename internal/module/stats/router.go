package stats

import (
	"student-data-system/internal/global/middleware"
	"student-data-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleStats) InitRouter(r *gin.RouterGroup) {
	statsGroup := r.Group("/stats")
	statsGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		statsGroup.GET("/student", m.StudentStats)
	}
}
