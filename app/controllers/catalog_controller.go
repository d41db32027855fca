package controllers

import (
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (cc *CategoryController) Index(c *ctx.Context) {
	categories, err := cc.catalog.ListCategories(c.Context())
	if err != nil {
		fail(c, "Could not load categories", err)
		return
	}
	c.OK("Categories", categories)
}

func (cc *CategoryController) Store(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	category, err := cc.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, "Create category failed", err)
		return
	}
	c.Created("Category created", category)
}

// Rename takes the category id in the path.
func (cc *CategoryController) Rename(c *ctx.Context) {
	id, ok := c.ParamID("category")
	if !ok {
		return
	}
	var in services.CategoryRename
	if !c.BindJSON(&in) {
		return
	}
	category, err := cc.catalog.RenameCategory(c.Context(), id, in)
	if err != nil {
		fail(c, "Rename category failed", err)
		return
	}
	c.OK("Category renamed", category)
}

// Destroy takes the category name in the path.
func (cc *CategoryController) Destroy(c *ctx.Context) {
	if err := cc.catalog.DeleteCategory(c.Context(), c.Param("category")); err != nil {
		fail(c, "Delete category failed", err)
		return
	}
	c.OK("Category deleted", nil)
}

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index lists products filtered by q, category and active, paged by page
// and perPage.
func (pc *ProductController) Index(c *ctx.Context) {
	active, ok := c.QueryBool("active")
	if !ok {
		return
	}
	page, err := pc.catalog.ListProducts(c.Context(), services.ProductQuery{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Active:   active,
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("perPage", 0),
	})
	if err != nil {
		fail(c, "Could not load products", err)
		return
	}
	c.OK("Products", page)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	product, err := pc.catalog.GetProduct(c.Context(), id)
	if err != nil {
		fail(c, "Could not load product", err)
		return
	}
	c.OK("Product", product)
}

// Store creates a product from multipart fields and an optional "image".
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindForm(&in) {
		return
	}
	image, ok := c.Image("image", false)
	if !ok {
		return
	}

	product, err := pc.catalog.CreateProduct(c.Context(), in, image)
	if err != nil {
		fail(c, "Create product failed", err)
		return
	}
	c.Created("Product created", product)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in services.ProductUpdate
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.catalog.UpdateProduct(c.Context(), id, in)
	if err != nil {
		fail(c, "Update product failed", err)
		return
	}
	c.OK("Product updated", product)
}

type activeRequest struct {
	IsActive *bool `json:"isActive"`
}

func (pc *ProductController) SetActive(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in activeRequest
	if !c.BindJSON(&in) {
		return
	}
	if in.IsActive == nil {
		c.ValidationError(map[string]string{"isActive": "The isActive field is required."})
		return
	}

	product, err := pc.catalog.SetProductActive(c.Context(), id, *in.IsActive)
	if err != nil {
		fail(c, "Update product failed", err)
		return
	}
	c.OK("Product updated", product)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := pc.catalog.DeleteProduct(c.Context(), id); err != nil {
		fail(c, "Delete product failed", err)
		return
	}
	c.OK("Product deleted", nil)
}
