package auth

import (
	"strings"
	"time"

	"student-data-system/internal/global/cache"
	"student-data-system/internal/global/jwt"
	"student-data-system/internal/global/response"
	"student-data-system/internal/store"
	"student-data-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	maxLoginFailures = 5
	loginFailWindow  = 15 * time.Minute
)

// LoginReq carries the credential pair. The NIS doubles as the
// bootstrap password until the account changes it.
type LoginReq struct {
	NIS      string `json:"nis" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies NIS + password and issues a token. An unknown NIS and
// a wrong password answer identically so the endpoint cannot be used to
// probe which NIS values exist.
func (a *ModuleAuth) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if cache.BlockedLogins(c, a.rdb, req.NIS) >= maxLoginFailures {
		log.Warn("login throttled", "nis", req.NIS)
		response.Fail(c, response.ErrTooManyAttempts)
		return
	}

	student, err := a.store.FindByNIS(req.NIS)
	switch {
	case errors.Is(err, store.ErrNotFound):
		cache.LoginFailures(c, a.rdb, req.NIS, loginFailWindow)
		log.Warn("login failed", "nis", req.NIS)
		response.Fail(c, response.ErrInvalidCredentials)
		return
	case err != nil:
		log.Error("database query failed", "error", err, "nis", req.NIS)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, student.Password) {
		cache.LoginFailures(c, a.rdb, req.NIS, loginFailWindow)
		log.Warn("login failed", "nis", req.NIS)
		response.Fail(c, response.ErrInvalidCredentials)
		return
	}

	cache.ClearLoginFailures(c, a.rdb, req.NIS)
	log.Info("login succeeded", "nis", student.NIS, "role", student.Role)

	response.Success(c, map[string]interface{}{
		"token": jwt.CreateToken(jwt.Payload{
			UserID: student.ID,
			NIS:    student.NIS,
			Nama:   student.Nama,
			Role:   student.Role,
		}),
		"id":                   student.ID,
		"nis":                  student.NIS,
		"nama":                 student.Nama,
		"role":                 student.Role,
		"must_change_password": student.MustChangePassword,
	})
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the old password, stores the new hash and
// clears the must-change flag.
func (a *ModuleAuth) ChangePassword(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if err := validatePasswordStrength(req.NewPassword); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	student, err := a.store.Get(payload.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		log.Error("database query failed", "error", err, "nis", payload.NIS)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.OldPassword, student.Password) {
		response.Fail(c, response.ErrInvalidCredentials)
		return
	}

	if _, err := a.store.Update(student.ID, map[string]any{
		"password":             tools.PasswordEncrypt(req.NewPassword),
		"must_change_password": false,
	}); err != nil {
		log.Error("password update failed", "error", err, "nis", payload.NIS)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("password changed", "nis", student.NIS)
	response.Success(c)
}

// validatePasswordStrength requires at least 8 characters with a letter
// and a digit.
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		switch {
		case strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", char):
			hasLetter = true
		case strings.ContainsRune("0123456789", char):
			hasDigit = true
		}
	}

	if !hasLetter {
		return errors.New("password must contain at least one letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one digit")
	}
	return nil
}
