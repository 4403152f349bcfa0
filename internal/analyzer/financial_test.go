package analyzer

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCleanCurrencyValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"full ERP cell", "1.234.567,89 TRY - 15.06.2025", 1234567.89},
		{"dot thousands", "1.234", 1234},
		{"dot decimal", "1.23", 1.23},
		{"comma decimal", "500,5", 500.5},
		{"comma thousands", "1,234,567", 1234567},
		{"negative with TL", "-2.500,00 TL", -2500},
		{"lira sign", "₺1.000", 1000},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"bare dash", "-", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanCurrencyValue(tt.input); got != tt.want {
				t.Errorf("cleanCurrencyValue(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPaymentCompliance(t *testing.T) {
	tests := []struct {
		name      string
		term, dev float64
		want      float64
	}{
		{"on time", 30, 0, 100},
		{"half late", 30, 15, 50},
		{"very late clamps", 30, 45, 0},
		{"early earns bonus", 30, -15, 110},
		{"zero term", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaymentCompliance(tt.term, tt.dev); got != tt.want {
				t.Errorf("PaymentCompliance(%v, %v) = %v, want %v", tt.term, tt.dev, got, tt.want)
			}
		})
	}
}

func TestCreditCompliance(t *testing.T) {
	within := &BalanceSnapshot{CreditLimit: 1000, CurrentRisk: 800, haveLimit: true, haveRisk: true}
	if got := CreditCompliance(within); got != "YES" {
		t.Errorf("risk inside limit = %q, want YES", got)
	}
	over := &BalanceSnapshot{CreditLimit: 1000, CurrentRisk: 1200, haveLimit: true, haveRisk: true}
	if got := CreditCompliance(over); got != "NO" {
		t.Errorf("risk over limit = %q, want NO", got)
	}
	if got := CreditCompliance(&BalanceSnapshot{CreditLimit: 1000, haveLimit: true}); got != "NO" {
		t.Errorf("missing risk row = %q, want NO", got)
	}
	if got := CreditCompliance(nil); got != "NO" {
		t.Errorf("nil snapshot = %q, want NO", got)
	}
}

func TestPaymentMethod(t *testing.T) {
	if got := PaymentMethod(&BalanceSnapshot{CheckRisk: 5000}); got != "çek" {
		t.Errorf("check risk = %q, want çek", got)
	}
	if got := PaymentMethod(&BalanceSnapshot{NoteRisk: 5000}); got != "senet" {
		t.Errorf("note risk = %q, want senet", got)
	}
	if got := PaymentMethod(&BalanceSnapshot{}); got != "belirsiz" {
		t.Errorf("no risk buckets = %q, want belirsiz", got)
	}
}

func TestCollectionPeriod(t *testing.T) {
	if got := CollectionPeriod(100, 365); got == nil || *got != 100 {
		t.Errorf("CollectionPeriod(100, 365) = %v, want 100", got)
	}
	if got := CollectionPeriod(100, 0); got != nil {
		t.Errorf("zero sales should yield nil, got %v", *got)
	}
}

func TestFindTermRow(t *testing.T) {
	rows := []PaymentTermRow{
		{Customer: "ABC YAPI MALZEMELERİ A.Ş.", TermDays: 30},
		{Customer: "Delta İnşaat", TermDays: 45},
	}
	if got := FindTermRow(rows, "ABC YAPI"); got == nil || got.TermDays != 30 {
		t.Errorf("prefix of row name should match, got %v", got)
	}
	if got := FindTermRow(rows, "Delta İnşaat Sanayi"); got == nil || got.TermDays != 45 {
		t.Errorf("row name inside query should match, got %v", got)
	}
	if got := FindTermRow(rows, ""); got != nil {
		t.Errorf("empty company should match nothing, got %v", got)
	}
	if got := FindTermRow(rows, "Yok Böyle Firma"); got != nil {
		t.Errorf("unknown company should match nothing, got %v", got)
	}
}

func writeSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestLoadBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bakiye.xlsx")
	writeSheet(t, path, [][]any{
		{"Alan", "Değer"},
		{"Cari Limiti", "500.000,00 TRY"},
		{"Cari Riski", "350.000,00 TRY - 15.06.2025"},
		{"Kendi Çek Riski", "120.000,00"},
		{"Alacak Toplamı", "80.000"},
		{"Satış Toplamı", "1.200.000"},
	})

	snap, err := NewFinancialAnalyzer(nil).LoadBalance(path)
	if err != nil {
		t.Fatalf("LoadBalance: %v", err)
	}
	if snap.CreditLimit != 500000 || snap.CurrentRisk != 350000 {
		t.Errorf("limit/risk = %v/%v", snap.CreditLimit, snap.CurrentRisk)
	}
	if snap.CheckRisk != 120000 {
		t.Errorf("check risk = %v", snap.CheckRisk)
	}
	if snap.Receivables != 80000 || snap.Sales != 1200000 {
		t.Errorf("receivables/sales = %v/%v", snap.Receivables, snap.Sales)
	}
	if got := CreditCompliance(snap); got != "YES" {
		t.Errorf("compliance = %q, want YES", got)
	}
}

func TestLoadPaymentTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vade.xlsx")
	writeSheet(t, path, [][]any{
		{"Ad", "ÖdemeKoşul", "Sapma", "Toplam FatFatOrtVade"},
		{"ABC YAPI", "45 gün", "12,5", "57,5"},
		{"", "30 gün", "0", "30"},
	})

	rows, err := NewFinancialAnalyzer(nil).LoadPaymentTerms(path)
	if err != nil {
		t.Fatalf("LoadPaymentTerms: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (nameless row dropped)", len(rows))
	}
	got := rows[0]
	if got.Customer != "ABC YAPI" || got.TermDays != 45 || got.Deviation != 12.5 || got.AvgMatur != 57.5 {
		t.Errorf("row = %+v", got)
	}
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hedef.xlsx")
	writeSheet(t, path, [][]any{
		{"Malzeme Tipi", "Ocak 2025 Ciro", "Şubat 2025 Ciro", "Not"},
		{"..Vida", "1.000", "2.000", "x"},
		{"Ankraj", "3.000,50", "4.000", ""},
		{"Total", "4.000", "6.000", ""},
	})

	tab, err := LoadTargets(path)
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	if len(tab.Months) != 2 || tab.Months[0] != "Ocak" || tab.Months[1] != "Şubat" {
		t.Fatalf("months = %v", tab.Months)
	}
	if len(tab.Materials) != 2 || tab.Materials[0] != "Vida" {
		t.Fatalf("materials = %v (Total row and leading dots should be gone)", tab.Materials)
	}
	if tab.Values[0][0] != 1000 || tab.Values[1][0] != 3000.5 {
		t.Errorf("values = %v", tab.Values)
	}
}
