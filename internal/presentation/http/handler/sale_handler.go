package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/request"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
	"github.com/sangkips/salesledger/pkg/pagination"
	"github.com/sangkips/salesledger/pkg/spreadsheet"
	"github.com/sangkips/salesledger/pkg/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
	filterDate      = "2006-01-02"
)

// SaleHandler handles sale, export and import HTTP requests
type SaleHandler struct {
	saleService   *service.SaleService
	exportService *service.ExportService
	importService *service.ImportService
	uploadMaxSize int64
}

// NewSaleHandler creates a new sale handler. Import uploads larger than
// uploadMaxSize bytes are rejected.
func NewSaleHandler(
	saleService *service.SaleService,
	exportService *service.ExportService,
	importService *service.ImportService,
	uploadMaxSize int64,
) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		exportService: exportService,
		importService: importService,
		uploadMaxSize: uploadMaxSize,
	}
}

// Create handles creating a sale
// @Summary Create sale
// @Description Commit every line that has stock and report the outcome of each requested line
// @Tags sales
// @Accept json
// @Produce json
// @Param request body request.CreateSaleRequest true "Sale"
// @Success 201 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	sellerID := GetSellerID(c)
	if sellerID == nil {
		response.Unauthorized(c, "Seller not authenticated")
		return
	}

	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateSaleInput{
		CustomerID: req.CustomerID,
		LocationID: req.LocationID,
		SellerID:   *sellerID,
		Status:     req.Status,
		DiscountID: req.DiscountID,
		Lines:      make([]service.SaleLineInput, 0, len(req.Lines)),
	}
	if req.SellerID != nil {
		input.SellerID = *req.SellerID
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.SaleLineInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	result, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", result)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status := enum.SaleStatus(filter.Status)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}

	var err error
	if params.CustomerID, err = utils.ParseOptionalUUID(filter.CustomerID); err != nil {
		response.BadRequest(c, "Invalid customer_id")
		return
	}
	if params.SellerID, err = utils.ParseOptionalUUID(filter.SellerID); err != nil {
		response.BadRequest(c, "Invalid seller_id")
		return
	}
	if filter.StartDate != "" {
		start, err := time.Parse(filterDate, filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse(filterDate, filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date")
			return
		}
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single sale with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// UpdateStatus handles changing a sale's status
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale status updated successfully", sale)
}

// ExportXLSX streams the sales report as an Excel workbook
func (h *SaleHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", xlsxContentType, spreadsheet.WriteXLSX)
}

// ExportCSV streams the sales report as CSV
func (h *SaleHandler) ExportCSV(c *gin.Context) {
	h.export(c, "csv", csvContentType, spreadsheet.WriteCSV)
}

func (h *SaleHandler) export(c *gin.Context, ext, contentType string, write func(io.Writer, spreadsheet.Table) error) {
	ctx := c.Request.Context()
	table, err := h.exportService.BuildReport(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("format", ext).Msg("sales export failed")
		response.Error(c, err)
		return
	}

	filename := "sales-" + time.Now().UTC().Format("20060102-150405") + "." + ext
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := write(c.Writer, *table); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("format", ext).Msg("sales export write failed")
		_ = c.Error(err)
	}
}

// Import handles a bulk sales upload in the "file" form field (.xlsx or .csv)
func (h *SaleHandler) Import(c *gin.Context) {
	if h.uploadMaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxSize)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A .xlsx or .csv file is required in the 'file' field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	rows, err := service.ParseImportFile(fileHeader.Filename, file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := h.importService.ImportRows(c.Request.Context(), rows)
	response.OK(c, "Sales import processed", result)
}
