package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quicknotes/internal/app"
	"quicknotes/internal/transport/http/middleware"
	"quicknotes/internal/transport/http/response"
)

type CategoryHandler struct {
	categoryService *app.CategoryService
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,oneof=peach yellow mint"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Color *string `json:"color" binding:"omitempty,oneof=peach yellow mint"`
}

func NewCategoryHandler(categoryService *app.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}

	categories, err := h.categoryService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list categories failed")
		return
	}
	response.OK(c, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	categoryID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "category not found")
		return
	}

	category, err := h.categoryService.Get(userID, categoryID)
	if err != nil {
		h.writeError(c, err, "get category failed")
		return
	}
	response.OK(c, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	category, err := h.categoryService.Create(app.CreateCategoryInput{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		h.writeError(c, err, "create category failed")
		return
	}
	response.OK(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	categoryID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	category, err := h.categoryService.Update(userID, categoryID, app.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		h.writeError(c, err, "update category failed")
		return
	}
	response.OK(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	categoryID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "category not found")
		return
	}

	if err := h.categoryService.Delete(userID, categoryID); err != nil {
		h.writeError(c, err, "delete category failed")
		return
	}
	response.OK(c, nil)
}

func (h *CategoryHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrCategoryExists):
		response.Error(c, http.StatusBadRequest, response.CodeCategoryExists, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "category not found")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
