package auth

import (
	"student-data-system/internal/global/middleware"
	"student-data-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (a *ModuleAuth) InitRouter(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")

	authGroup.POST("/login", a.Login)
	authGroup.POST("/password", middleware.Auth(model.RoleStudent), a.ChangePassword)
}
