package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reuseu/internal/domain/entity"
	"reuseu/internal/usecase"
	"reuseu/pkg/response"
	"reuseu/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{listingUseCase: listingUseCase}
}

type createListingRequest struct {
	Title       string            `json:"Title" validate:"required"`
	Description string            `json:"Description"`
	Price       int64             `json:"Price" validate:"min=0"`
	Categories  entity.OrdinalMap `json:"Categories" validate:"required"`
}

type addImagesRequest struct {
	Images []string `json:"images" validate:"required,min=1"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), sessionOf(c), usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Categories:  req.Categories,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.Get(c.Request().Context(), sessionOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	listings, total, err := h.listingUseCase.List(c.Request().Context(), sessionOf(c), usecase.ListingQuery{
		Status:     c.QueryParam("status"),
		OwnerID:    c.QueryParam("owner"),
		Pagination: pagination,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, int64(total), pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var patch entity.ListingPatch
	if err := c.Bind(&patch); err != nil {
		return response.Error(c, err)
	}
	listing, err := h.listingUseCase.Update(c.Request().Context(), sessionOf(c), c.Param("id"), patch)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if err := h.listingUseCase.Delete(c.Request().Context(), sessionOf(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *ListingHandler) AddImages(c echo.Context) error {
	var req addImagesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	keys, err := h.listingUseCase.AddImages(c.Request().Context(), sessionOf(c), c.Param("id"), req.Images)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string][]string{"images": keys})
}

func (h *ListingHandler) GetImage(c echo.Context) error {
	data, err := h.listingUseCase.GetImage(c.Request().Context(), sessionOf(c), c.Param("id"), c.Param("n"))
	if err != nil {
		return response.Error(c, err)
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
