package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	productsvc "github.com/sitecrm/sitecrm-backend/internal/products"
)

type stubProductService struct {
	productsvc.Service

	report *productsvc.SweepReport
	seed   []productsvc.SelectionItem
	err    error

	gotCategory string
}

func (s *stubProductService) ReorderAllProducts(ctx context.Context) (*productsvc.SweepReport, error) {
	return s.report, s.err
}

func (s *stubProductService) SeedSelection(ctx context.Context, category string) ([]productsvc.SelectionItem, error) {
	s.gotCategory = category
	return s.seed, s.err
}

func TestReorderAllProductsReportsSweep(t *testing.T) {
	svc := &stubProductService{report: &productsvc.SweepReport{Total: 3, Updated: 2, Skipped: 1}}
	handler := ReorderAllProducts(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/reorder-all", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data *productsvc.SweepReport `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data == nil || envelope.Data.Updated != 2 || envelope.Data.Skipped != 1 {
		t.Fatalf("unexpected report %+v", envelope.Data)
	}
}

func TestSeedSelectionRequiresCategory(t *testing.T) {
	handler := SeedSelection(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/seed", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSeedSelectionPassesCategory(t *testing.T) {
	svc := &stubProductService{seed: []productsvc.SelectionItem{}}
	handler := SeedSelection(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/seed?category=Coffee", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotCategory != "Coffee" {
		t.Fatalf("expected category Coffee got %q", svc.gotCategory)
	}
}
