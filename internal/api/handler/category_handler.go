package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CategoryHandler struct {
	catalogService service.ICatalogService
}

func NewCategoryHandler(catalogService service.ICatalogService) *CategoryHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &CategoryHandler{
		catalogService: catalogService,
	}
}

func (c *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalogService.GetAllCategories(r.Context())
	if err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}

	categoryDTOs := make([]dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		categoryDTOs = append(categoryDTOs, convertCategoryModelToDTO(&category))
	}
	api.SuccessJSON(w, categoryDTOs)
}

func (c *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var reqDTO dto.CategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	category := &model.Category{
		Name:        reqDTO.Name,
		Description: reqDTO.Description,
	}

	if err := c.catalogService.CreateCategory(r.Context(), category); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertCategoryModelToDTO(category))
}

func (c *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	var reqDTO dto.CategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	category := &model.Category{
		ID:          categoryID,
		Name:        reqDTO.Name,
		Description: reqDTO.Description,
	}

	updated, err := c.catalogService.UpdateCategory(r.Context(), category)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertCategoryModelToDTO(updated))
}

// DeleteCategory 刪分類不刪商品, 受影響商品變成未分類
func (c *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	if err := c.catalogService.DeleteCategory(r.Context(), categoryID); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, map[string]string{"message": "category deleted"})
}

func convertCategoryModelToDTO(category *model.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}
