package service

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
)

func TestParseFilter_AllDepartments(t *testing.T) {
	c := qt.New(t)
	for _, v := range []string{"", "Todas", "todas", "ALL", " all "} {
		f, err := parseFilter(&dto.FilterQuery{DepartmentID: v})
		c.Assert(err, qt.IsNil, qt.Commentf("valor %q", v))
		c.Assert(f.DepartmentID, qt.IsNil, qt.Commentf("valor %q", v))
	}
}

func TestParseFilter_Values(t *testing.T) {
	c := qt.New(t)

	f, err := parseFilter(&dto.FilterQuery{DepartmentID: "3", FiscalYear: " 2026 ", Code: "  PCA-1 "})
	c.Assert(err, qt.IsNil)
	c.Assert(*f.DepartmentID, qt.Equals, uint(3))
	c.Assert(*f.FiscalYear, qt.Equals, 2026)
	c.Assert(f.Code, qt.Equals, "PCA-1")
}

func TestParseFilter_Invalid(t *testing.T) {
	c := qt.New(t)
	for _, q := range []dto.FilterQuery{
		{DepartmentID: "abc"},
		{DepartmentID: "0"},
		{DepartmentID: "-2"},
		{FiscalYear: "vinte"},
	} {
		_, err := parseFilter(&q)
		c.Assert(err, qt.Equals, ErrInvalidFilter, qt.Commentf("filtro %+v", q))
	}
}

func TestParseFilter_Nil(t *testing.T) {
	c := qt.New(t)
	f, err := parseFilter(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(f.DepartmentID, qt.IsNil)
	c.Assert(f.FiscalYear, qt.IsNil)
	c.Assert(f.Code, qt.Equals, "")
}

func TestToProcurementResponse(t *testing.T) {
	c := qt.New(t)

	code := "PCA-5.2026-2"
	p := &model.Procurement{
		ID:             5,
		FiscalYear:     2026,
		Subject:        "Medicamentos",
		EstimatedValue: decimal.RequireFromString("1234.5"),
		PlannedDate:    model.NewDate(2026, time.June, 30),
		DepartmentID:   2,
		Code:           &code,
		Department:     &model.Department{ID: 2, Name: "Secretaria de Saúde"},
	}

	resp := toProcurementResponse(p)
	c.Assert(resp.Code, qt.Equals, code)
	c.Assert(resp.EstimatedValue, qt.Equals, "1234.50")
	c.Assert(resp.EstimatedValueBRL, qt.Equals, "1.234,50")
	c.Assert(resp.PlannedDate, qt.Equals, "2026-06-30")
	c.Assert(resp.Department.Name, qt.Equals, "Secretaria de Saúde")
	c.Assert(resp.UpdatedAt, qt.Equals, "")
}

func TestToEntityResponse_LogoURL(t *testing.T) {
	c := qt.New(t)

	c.Assert(toEntityResponse(&model.Entity{Name: "Prefeitura"}).LogoURL, qt.Equals, "")

	logo := "ab12cd34_brasao.png"
	c.Assert(toEntityResponse(&model.Entity{Name: "Prefeitura", LogoPath: &logo}).LogoURL, qt.Equals, "/uploads/ab12cd34_brasao.png")
}
