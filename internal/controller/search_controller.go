package controller

import (
	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/pkg/serverutils"
	"ai-knowledge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	SimilaritySearch(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Get("similarity", c.SimilaritySearch)
}

func (c *searchController) SimilaritySearch(ctx *fiber.Ctx) error {
	var req dto.SimilaritySearchRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.SimilaritySearch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success similarity search", res))
}
