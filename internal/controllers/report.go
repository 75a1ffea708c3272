package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/services"
	"inventory-system/pkg/constants"
	"inventory-system/pkg/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"

	// Export renditions ignore pagination and dump everything.
	exportPageSize = 100000
)

type ReportController struct {
	reportService services.ReportServiceInterface
	auditService  services.AuditServiceInterface
	logger        *zap.Logger
}

func NewReportController(
	reportService services.ReportServiceInterface,
	auditService services.AuditServiceInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{reportService: reportService, auditService: auditService, logger: logger}
}

func (c *ReportController) GetLoanReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter, format := c.parseLoanFilters(ctx)

	if format == "xlsx" || format == "pdf" {
		items, _, err := c.reportService.GetLoanReport(reqCtx, filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		c.auditService.LogAction(reqCtx, constants.ActionExport, "loans", nil, nil,
			map[string]interface{}{"format": format, "rows": len(items)})
		if format == "xlsx" {
			return c.loanReportXLSX(ctx, items)
		}
		return c.loanReportPDF(ctx, items)
	}

	dtos, total, err := c.reportService.GetLoanReportDTOs(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	return utils.ListResponse(ctx, dtos, "loan report generated", utils.BuildPagination(total, stdFilter))
}

func (c *ReportController) GetArticleReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	format := strings.ToLower(ctx.QueryParam("formato"))

	if format == "xlsx" || format == "pdf" {
		items, err := c.reportService.GetArticleReport(reqCtx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		c.auditService.LogAction(reqCtx, constants.ActionExport, "articles", nil, nil,
			map[string]interface{}{"format": format, "rows": len(items)})
		if format == "xlsx" {
			return c.articleReportXLSX(ctx, items)
		}
		return c.articleReportPDF(ctx, items)
	}

	dtos, err := c.reportService.GetArticleReportDTOs(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dtos, "article report generated", http.StatusOK)
}

func (c *ReportController) parseLoanFilters(ctx echo.Context) (entities.LoanReportFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.LoanReportFilter{
		Page:    stdFilter.Page,
		PerPage: stdFilter.Limit,
	}
	format := strings.ToLower(ctx.QueryParam("formato"))
	if format == "xlsx" || format == "pdf" {
		filter.Page = 1
		filter.PerPage = exportPageSize
	}

	if from, err := parseDateParam(ctx, "fechaInicio"); err == nil && from != nil {
		filter.DateFrom = from
	}
	if to, err := parseDateParam(ctx, "fechaFin"); err == nil && to != nil {
		filter.DateTo = to
	}
	if states := ctx.QueryParam("estado"); states != "" {
		filter.StateCodes = strings.Split(strings.ToUpper(states), ",")
	}
	if raw := ctx.QueryParam("usuarios"); raw != "" {
		ids, _ := utils.ParseUint64Slice(strings.Split(raw, ","))
		filter.UserIDs = ids
	}
	return filter, format
}

var loanReportHeaders = []string{
	"#", "User", "Article Code", "Article", "State", "Requested",
	"Delivered", "Returned", "Approved By", "Observations",
}

func loanReportRow(item entities.LoanReportItem) []interface{} {
	const layout = "02.01.2006 15:04"
	var delivered, returned string
	if item.DeliveredAt.Valid {
		delivered = item.DeliveredAt.Time.Format(layout)
	}
	if item.ReturnedAt.Valid {
		returned = item.ReturnedAt.Time.Format(layout)
	}
	return []interface{}{
		item.LoanID, item.UserName.String, item.ArticleCode.String, item.ArticleName.String,
		item.StateName.String, item.RequestedAt.Format(layout), delivered, returned,
		item.ApproverName.String, item.Observations.String,
	}
}

func (c *ReportController) loanReportXLSX(ctx echo.Context, items []entities.LoanReportItem) error {
	f := excelize.NewFile()
	sheet := "Loans"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &loanReportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "J1", style)

	for i, item := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := loanReportRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "E", 20)
	f.SetColWidth(sheet, "F", "H", 18)
	f.SetColWidth(sheet, "J", "J", 40)

	return writeAttachment(ctx, "loan_report", "xlsx", xlsxContentType, func(w io.Writer) error { return f.Write(w) })
}

func (c *ReportController) loanReportPDF(ctx echo.Context, items []entities.LoanReportItem) error {
	widths := []float64{12, 40, 28, 40, 24, 30, 30, 30, 30, 0}
	pdf := newReportPDF("Loan Report", loanReportHeaders, widths)
	for _, item := range items {
		addReportRow(pdf, loanReportRow(item), widths)
	}
	return writeAttachment(ctx, "loan_report", "pdf", pdfContentType, pdf.Output)
}

var articleReportHeaders = []string{
	"#", "Code", "Name", "Category", "State", "Location", "Stock", "Price", "Active Loans",
}

func articleReportRow(item entities.ArticleReportItem) []interface{} {
	var price string
	if item.Price.Valid {
		price = fmt.Sprintf("%.2f", item.Price.Float64)
	}
	return []interface{}{
		item.ArticleID, item.Code, item.Name, item.CategoryName.String,
		item.StateName.String, item.Location.String, item.Stock, price, item.ActiveLoans,
	}
}

func (c *ReportController) articleReportXLSX(ctx echo.Context, items []entities.ArticleReportItem) error {
	f := excelize.NewFile()
	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &articleReportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "I1", style)

	for i, item := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := articleReportRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "C", 25)
	f.SetColWidth(sheet, "D", "F", 18)

	return writeAttachment(ctx, "article_report", "xlsx", xlsxContentType, func(w io.Writer) error { return f.Write(w) })
}

func (c *ReportController) articleReportPDF(ctx echo.Context, items []entities.ArticleReportItem) error {
	widths := []float64{12, 30, 50, 30, 26, 30, 16, 22, 0}
	pdf := newReportPDF("Article Inventory Report", articleReportHeaders, widths)
	for _, item := range items {
		addReportRow(pdf, articleReportRow(item), widths)
	}
	return writeAttachment(ctx, "article_report", "pdf", pdfContentType, pdf.Output)
}

func newReportPDF(title string, headers []string, widths []float64) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidth(pdf, widths, i), 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	return pdf
}

func addReportRow(pdf *gofpdf.Fpdf, row []interface{}, widths []float64) {
	for i, v := range row {
		pdf.CellFormat(colWidth(pdf, widths, i), 6, fmt.Sprintf("%v", v), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

// colWidth treats a zero width as "rest of the page".
func colWidth(pdf *gofpdf.Fpdf, widths []float64, i int) float64 {
	if widths[i] > 0 {
		return widths[i]
	}
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	used := 0.0
	for _, w := range widths {
		used += w
	}
	return pageW - left - right - used
}

func writeAttachment(ctx echo.Context, name, ext, contentType string, write func(w io.Writer) error) error {
	fileName := fmt.Sprintf("%s_%s.%s", name, time.Now().Format("2006-01-02"), ext)
	ctx.Response().Header().Set(echo.HeaderContentType, contentType)
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return write(ctx.Response().Writer)
}
