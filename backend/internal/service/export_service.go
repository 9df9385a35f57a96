package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/repository"
	"pca-portal/backend/pkg/currency"
	apperrors "pca-portal/backend/pkg/errors"
)

// ── export errors ──

var ErrExportGenerateFail = apperrors.New(apperrors.ErrConflict, "Erro interno ao gerar o relatório. Tente novamente mais tarde.")

const (
	ScopeAllDepartments = "Consolidado (Todas as Secretarias)"
	XLSXContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName   = "PCA_Exportacao"
	brandColor  = "24549C"
	logoPixels  = 75
	headerRow   = 5
	currencyFmt = `"R$ "#,##0.00`
)

// ReportColumns fixed column order shared by every export
var ReportColumns = []string{"Código", "Exercício", "Secretaria", "Objeto", "Data Planejada", "Dotação", "Valor Estimado (R$)"}

// ReportRow one record in export order
type ReportRow struct {
	Code           string
	FiscalYear     int
	Department     string
	Subject        string
	PlannedDate    string // dd/mm/yyyy or "-"
	BudgetLine     string
	EstimatedValue decimal.Decimal
	ValueBRL       string
}

// ReportProjection what the public is looking at, ready for rendering
type ReportProjection struct {
	EntityName  string
	LogoFile    string // absolute path, "" when there is no usable logo
	FiscalYear  string // "" means every year
	Scope       string
	Rows        []ReportRow
	Total       decimal.Decimal
	GeneratedAt time.Time
}

// Title heading line, e.g. "Plano de Contratações Anual - 2025"
func (p *ReportProjection) Title() string {
	year := p.FiscalYear
	if year == "" {
		year = "Geral"
	}
	return "Plano de Contratações Anual - " + year
}

// Filename suggested name of the spreadsheet
func (p *ReportProjection) Filename() string {
	year := p.FiscalYear
	if year == "" {
		year = "Completo"
	}
	return fmt.Sprintf("PCA_%s.xlsx", year)
}

// ExportService spreadsheet and print document of the filtered public listing
type ExportService interface {
	Projection(ctx context.Context, q *dto.FilterQuery) (*ReportProjection, error)
	// ExportExcel returns the workbook and its suggested filename
	ExportExcel(ctx context.Context, q *dto.FilterQuery) (*bytes.Buffer, string, error)
	// ExportDocument renders an HTML page meant to be printed to PDF by the browser
	ExportDocument(ctx context.Context, q *dto.FilterQuery) (*bytes.Buffer, error)
}

type exportService struct {
	repo      *repository.Repository
	uploadDir string
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService creates an ExportService. uploadDir holds the entity logo.
func NewExportService(repo *repository.Repository, uploadDir string, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, uploadDir: uploadDir, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// Projection
// ═══════════════════════════════════════════════════════════

func (s *exportService) Projection(ctx context.Context, q *dto.FilterQuery) (*ReportProjection, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Procurement.List(ctx, filter)
	if err != nil {
		s.logger.Error("falha ao listar contratações para exportação", zap.Error(err))
		return nil, err
	}

	entity, err := loadEntity(ctx, s.repo)
	if err != nil {
		s.logger.Error("falha ao carregar ente", zap.Error(err))
		return nil, err
	}

	proj := &ReportProjection{
		EntityName:  entity.Name,
		LogoFile:    s.logoFile(entity),
		Scope:       ScopeAllDepartments,
		Rows:        make([]ReportRow, 0, len(list)),
		Total:       decimal.Zero,
		GeneratedAt: s.now(),
	}
	if filter.FiscalYear != nil {
		proj.FiscalYear = fmt.Sprintf("%d", *filter.FiscalYear)
	}
	if filter.DepartmentID != nil {
		dept, err := s.repo.Department.GetByID(ctx, *filter.DepartmentID)
		switch {
		case err == nil:
			proj.Scope = dept.Name
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	for i := range list {
		p := &list[i]
		proj.Rows = append(proj.Rows, ReportRow{
			Code:           p.CodeValue(),
			FiscalYear:     p.FiscalYear,
			Department:     p.DepartmentName(),
			Subject:        p.Subject,
			PlannedDate:    p.PlannedDate.String(),
			BudgetLine:     p.BudgetLine,
			EstimatedValue: p.EstimatedValue,
			ValueBRL:       currency.FormatBRLSymbol(p.EstimatedValue),
		})
		proj.Total = proj.Total.Add(p.EstimatedValue)
	}
	return proj, nil
}

// logoFile resolves the stored logo under uploadDir, "" when missing
func (s *exportService) logoFile(e *model.Entity) string {
	if e.LogoPath == nil || *e.LogoPath == "" || s.uploadDir == "" {
		return ""
	}
	path := filepath.Join(s.uploadDir, filepath.Base(*e.LogoPath))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

// ═══════════════════════════════════════════════════════════
// ExportExcel
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - A1 logo (when present), B1 entity name, B2 title, B3 scope
//   - row 5 header in ReportColumns order, data from row 6

func (s *exportService) ExportExcel(ctx context.Context, q *dto.FilterQuery) (*bytes.Buffer, string, error) {
	proj, err := s.Projection(ctx, q)
	if err != nil {
		return nil, "", err
	}

	buf, err := s.renderExcel(proj)
	if err != nil {
		s.logger.Error("falha ao gerar planilha", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, proj.Filename(), nil
}

func (s *exportService) renderExcel(proj *ReportProjection) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// column widths
	for i := range ReportColumns {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, 20)
	}
	f.SetColWidth(sheetName, "D", "D", 60)
	for r := 1; r <= 4; r++ {
		f.SetRowHeight(sheetName, r, 20)
	}

	// styles
	entityStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: brandColor},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{brandColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	centerStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	fmtCode := currencyFmt
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtCode})

	// header block
	for r, text := range []string{proj.EntityName, proj.Title(), "Escopo: " + proj.Scope} {
		row := r + 1
		f.MergeCell(sheetName, cell("B", row), cell("F", row))
		f.SetCellValue(sheetName, cell("B", row), text)
	}
	f.SetCellStyle(sheetName, "B1", "B1", entityStyle)
	f.SetCellStyle(sheetName, "B2", "B2", titleStyle)

	if proj.LogoFile != "" {
		if err := addLogo(f, proj.LogoFile); err != nil {
			s.logger.Warn("não foi possível anexar o logotipo à planilha", zap.Error(err))
		}
	}

	// table header
	for i, title := range ReportColumns {
		f.SetCellValue(sheetName, cell(colName(i), headerRow), title)
	}
	f.SetCellStyle(sheetName, cell("A", headerRow), cell(colName(len(ReportColumns)-1), headerRow), headerStyle)

	// data rows
	row := headerRow
	for _, r := range proj.Rows {
		row++
		f.SetCellValue(sheetName, cell("A", row), r.Code)
		f.SetCellValue(sheetName, cell("B", row), r.FiscalYear)
		f.SetCellValue(sheetName, cell("C", row), r.Department)
		f.SetCellValue(sheetName, cell("D", row), r.Subject)
		f.SetCellValue(sheetName, cell("E", row), r.PlannedDate)
		f.SetCellValue(sheetName, cell("F", row), r.BudgetLine)
		f.SetCellValue(sheetName, cell("G", row), r.EstimatedValue.InexactFloat64())

		f.SetCellStyle(sheetName, cell("A", row), cell("B", row), centerStyle)
		f.SetCellStyle(sheetName, cell("E", row), cell("F", row), centerStyle)
		f.SetCellStyle(sheetName, cell("G", row), cell("G", row), moneyStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// addLogo places the image at A1 scaled to roughly logoPixels wide
func addLogo(f *excelize.File, path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(fh)
	fh.Close()
	if err != nil {
		return err
	}

	scale := 1.0
	if cfg.Width > 0 {
		scale = float64(logoPixels) / float64(cfg.Width)
	}
	return f.AddPicture(sheetName, "A1", path, &excelize.GraphicOptions{
		ScaleX:          scale,
		ScaleY:          scale,
		LockAspectRatio: true,
	})
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ═══════════════════════════════════════════════════════════
// ExportDocument
// ═══════════════════════════════════════════════════════════

var documentTmpl = template.Must(template.New("relatorio").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 12px; color: #222; margin: 24px; }
header { border-bottom: 2px solid #{{.Color}}; margin-bottom: 16px; padding-bottom: 8px; }
h1 { color: #{{.Color}}; font-size: 18px; margin: 0; }
h2 { font-size: 14px; margin: 4px 0; }
table { width: 100%; border-collapse: collapse; }
th { background: #{{.Color}}; color: #fff; padding: 6px; }
td { border-bottom: 1px solid #ddd; padding: 5px; }
td.c { text-align: center; }
td.v { text-align: right; white-space: nowrap; }
tfoot td { font-weight: bold; }
footer { margin-top: 16px; font-size: 10px; color: #666; }
@media print { body { margin: 0; } }
</style>
</head>
<body onload="window.print()">
<header>
<h1>{{.EntityName}}</h1>
<h2>{{.Title}}</h2>
<div>Escopo: {{.Scope}}</div>
</header>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr><td class="c">{{.Code}}</td><td class="c">{{.FiscalYear}}</td><td>{{.Department}}</td><td>{{.Subject}}</td><td class="c">{{.PlannedDate}}</td><td class="c">{{.BudgetLine}}</td><td class="v">{{.ValueBRL}}</td></tr>
{{- else}}
<tr><td colspan="7" class="c">Nenhuma contratação encontrada para os filtros selecionados.</td></tr>
{{- end}}
</tbody>
<tfoot><tr><td colspan="6">Total estimado</td><td class="v">{{.Total}}</td></tr></tfoot>
</table>
<footer>Documento gerado em {{.GeneratedAt}}</footer>
</body>
</html>
`))

func (s *exportService) ExportDocument(ctx context.Context, q *dto.FilterQuery) (*bytes.Buffer, error) {
	proj, err := s.Projection(ctx, q)
	if err != nil {
		return nil, err
	}

	data := struct {
		EntityName  string
		Title       string
		Scope       string
		Color       string
		Columns     []string
		Rows        []ReportRow
		Total       string
		GeneratedAt string
	}{
		EntityName:  proj.EntityName,
		Title:       proj.Title(),
		Scope:       proj.Scope,
		Color:       brandColor,
		Columns:     ReportColumns,
		Rows:        proj.Rows,
		Total:       currency.FormatBRLSymbol(proj.Total),
		GeneratedAt: proj.GeneratedAt.Format(timestampLayout),
	}

	buf := new(bytes.Buffer)
	if err := documentTmpl.Execute(buf, data); err != nil {
		s.logger.Error("falha ao gerar documento de impressão", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}
