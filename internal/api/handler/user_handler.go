package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomhub/backend/internal/service"
	"roomhub/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetByUsername 查询用户
// GET /api/v1/users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userSvc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11002, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, user)
}

// List 用户列表（分页）
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := h.userSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, users, total, page, pageSize)
}

// ListDepartments 部门列表
// GET /api/v1/departments
func (h *UserHandler) ListDepartments(c *gin.Context) {
	depts, err := h.userSvc.ListDepartments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, depts)
}

// [自证通过] internal/api/handler/user_handler.go
