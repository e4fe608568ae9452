package handler

import (
	"net/http"
	"time"

	"Pulse/config"
	"Pulse/dao"
	"Pulse/pkg/context"
	"Pulse/pkg/jwt"
	"Pulse/pkg/response"

	"github.com/gin-gonic/gin"
)

type Auth struct {
	Config *config.Config
	Users  *dao.Users
}

func (h *Auth) RegisterRouter(r gin.IRouter) {
	auth := r.Group("/v1/auth")
	auth.POST("/login", context.Wrap(h.Login))
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Login 邮箱登录, 签发访问令牌
func (h *Auth) Login(c *gin.Context) error {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		return response.NewError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return response.NewError(http.StatusNotFound, "用户不存在")
	}

	expire := time.Duration(h.Config.Jwt.ExpiresTime) * time.Second
	token, err := jwt.GenerateToken([]byte(h.Config.Jwt.Secret), user.ID, "access", expire)
	if err != nil {
		return response.NewError(http.StatusInternalServerError, "令牌签发失败")
	}

	response.Success(c, gin.H{
		"access_token": token,
		"user":         user,
	})
	return nil
}
