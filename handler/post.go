package handler

import (
	"net/http"
	"strconv"

	"Pulse/config"
	"Pulse/middleware"
	"Pulse/pkg/context"
	"Pulse/pkg/response"
	"Pulse/service"
	"Pulse/types"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	Config      *config.Config
	PostService service.IPostService
}

func (h *PostHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	posts := r.Group("/v1/posts")
	posts.POST("/create", authorize, context.Wrap(h.Create))
	posts.GET("/list", authorize, context.Wrap(h.List))
	posts.GET("/:post_id", authorize, context.Wrap(h.Get))
	posts.POST("/update", authorize, context.Wrap(h.Update))
	posts.POST("/delete", authorize, context.Wrap(h.Delete))
}

// Create 发帖
func (h *PostHandler) Create(c *gin.Context) error {
	var req types.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	post, err := h.PostService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, post)
	return nil
}

// Get 帖子详情
func (h *PostHandler) Get(c *gin.Context) error {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		return response.NewError(http.StatusBadRequest, "post_id参数错误")
	}

	userID, _ := context.GetUserID(c)

	post, err := h.PostService.Get(c.Request.Context(), userID, postID)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, post)
	return nil
}

// List 帖子流(游标分页)
func (h *PostHandler) List(c *gin.Context) error {
	cursor := int64(0)
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		if v, err := strconv.ParseInt(cursorStr, 10, 64); err == nil {
			cursor = v
		}
	}
	limit := 20
	if ls := c.Query("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil {
			limit = v
		}
	}

	userID, _ := context.GetUserID(c)

	result, err := h.PostService.List(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, result)
	return nil
}

// Update 改帖
func (h *PostHandler) Update(c *gin.Context) error {
	var req types.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	post, err := h.PostService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, post)
	return nil
}

// Delete 删帖
func (h *PostHandler) Delete(c *gin.Context) error {
	var req types.DeletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := h.PostService.Delete(c.Request.Context(), userID, req.PostID); err != nil {
		return asBizError(err)
	}

	response.Success(c, gin.H{"post_id": strconv.FormatUint(req.PostID, 10)})
	return nil
}
