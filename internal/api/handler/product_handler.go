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

type ProductHandler struct {
	catalogService service.ICatalogService
}

func NewProductHandler(catalogService service.ICatalogService) *ProductHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &ProductHandler{
		catalogService: catalogService,
	}
}

// GetProducts 商店前台列表, 只回上架中的商品
func (p *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.catalogService.GetActiveProducts(r.Context())
	if err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}
	api.SuccessJSON(w, convertProductsToDTO(products))
}

// GetAllProducts 後台列表, 含已封存商品
func (p *ProductHandler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.catalogService.GetAllProducts(r.Context())
	if err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}
	api.SuccessJSON(w, convertProductsToDTO(products))
}

func (p *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	product, err := p.catalogService.GetProduct(r.Context(), productID)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertProductModelToDTO(product))
}

func (p *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var reqDTO dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	product := &model.Product{
		Name:        reqDTO.Name,
		Description: reqDTO.Description,
		Price:       reqDTO.Price,
		Stock:       reqDTO.Stock,
		CategoryID:  reqDTO.CategoryID,
		IsActive:    true,
	}
	if reqDTO.IsActive != nil {
		product.IsActive = *reqDTO.IsActive
	}

	if err := p.catalogService.CreateProduct(r.Context(), product); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertProductModelToDTO(product))
}

func (p *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	var reqDTO dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	product := &model.Product{
		ID:          productID,
		Name:        reqDTO.Name,
		Description: reqDTO.Description,
		Price:       reqDTO.Price,
		Stock:       reqDTO.Stock,
		CategoryID:  reqDTO.CategoryID,
	}
	if reqDTO.IsActive != nil {
		product.IsActive = *reqDTO.IsActive
	}

	updated, err := p.catalogService.UpdateProduct(r.Context(), product)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertProductModelToDTO(updated))
}

// UpdateProductSpecs 覆蓋式更新spec文件, 傳null清空
func (p *ProductHandler) UpdateProductSpecs(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	var reqDTO dto.ProductSpecsDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	if err := p.catalogService.UpdateProductSpecs(r.Context(), productID, reqDTO.Specs); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, map[string]string{"message": "specs updated"})
}

// ArchiveProduct 下架不刪資料, 歷史訂單仍能對回商品
func (p *ProductHandler) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	if err := p.catalogService.ArchiveProduct(r.Context(), productID); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, map[string]string{"message": "product archived"})
}

func (p *ProductHandler) HardDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	if err := p.catalogService.HardDeleteProduct(r.Context(), productID); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, map[string]string{"message": "product deleted"})
}

func convertProductModelToDTO(product *model.Product) dto.ProductDTO {
	productDTO := dto.ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
		IsActive:    product.IsActive,
		Specs:       product.Specs,
		CreatedAt:   product.CreatedAt,
	}
	if product.Category != nil {
		productDTO.CategoryName = product.Category.Name
	}
	return productDTO
}

func convertProductsToDTO(products []model.Product) []dto.ProductDTO {
	productDTOs := make([]dto.ProductDTO, 0, len(products))
	for i := range products {
		productDTOs = append(productDTOs, convertProductModelToDTO(&products[i]))
	}
	return productDTOs
}
