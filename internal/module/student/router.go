package student

import (
	"student-data-system/internal/global/middleware"
	"student-data-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleStudent) InitRouter(r *gin.RouterGroup) {
	studentGroup := r.Group("/student")

	adminGroup := studentGroup.Group("")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		adminGroup.GET("", m.ListStudents)
		adminGroup.POST("", m.CreateStudent)
		adminGroup.DELETE("/:id", m.DeleteStudent)
		adminGroup.POST("/import", m.ImportStudents)
		adminGroup.GET("/export", m.ExportStudents)
	}

	// per-record access is decided in the handler (self or admin)
	selfGroup := studentGroup.Group("")
	selfGroup.Use(middleware.Auth(model.RoleStudent))
	{
		selfGroup.GET("/:id", m.GetStudent)
		selfGroup.PUT("/:id", m.UpdateStudent)
	}
}
