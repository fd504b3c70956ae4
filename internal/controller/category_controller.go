package controller

import (
	"quizarena_backend/internal/model"
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// List godoc
// @Summary List categories with the caller's access state
// @Tags categories
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CategoryView}
// @Router /api/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	views, err := c.CategoryService.List(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// Get godoc
// @Summary Category detail
// @Tags categories
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category id"
// @Success 200 {object} util.Response{data=service.CategoryView}
// @Failure 404 {object} util.Response
// @Router /api/categories/{id} [get]
func (c *CategoryController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}
	view, err := c.CategoryService.Get(id, claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// swagger:model CategoryRequest
type CategoryRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsPaid      bool    `json:"isPaid"`
}

// Create godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CategoryRequest true "Category fields"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/admin/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category := &model.Category{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsPaid:      req.IsPaid,
	}
	if err := c.CategoryService.Create(category); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// Update godoc
// @Summary Update a category
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category id"
// @Param body body CategoryRequest true "Category fields"
// @Success 200 {object} util.Response{data=model.Category}
// @Router /api/admin/categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.CategoryService.CategoryRepo.FindByID(id)
	if err != nil {
		util.HandleServiceError(ctx, util.ErrCategoryNotFound)
		return
	}
	category.Title = req.Title
	category.Description = req.Description
	category.Price = req.Price
	category.IsPaid = req.IsPaid
	if err := c.CategoryService.Update(category); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// Delete godoc
// @Summary Delete a category
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category id"
// @Success 200 {object} util.Response
// @Router /api/admin/categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}
	if err := c.CategoryService.Delete(id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "category deleted"})
}
