package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/xamad/smartfridge/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestFindDate(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name  string
		text  string
		want  time.Time
		found bool
	}{
		{
			name:  "slash separated full year",
			text:  "SCONTRINO 01/03/2024 ORE 18:32",
			want:  date(2024, time.March, 1),
			found: true,
		},
		{
			name:  "dash separated",
			text:  "05-03-2024",
			want:  date(2024, time.March, 5),
			found: true,
		},
		{
			name:  "dot separated",
			text:  "05.03.2024",
			want:  date(2024, time.March, 5),
			found: true,
		},
		{
			name:  "two digit year expands to 2000s",
			text:  "05/03/24",
			want:  date(2024, time.March, 5),
			found: true,
		},
		{
			name:  "date embedded in surrounding text",
			text:  "DOC. N. 0042 DEL 12/11/2023 CASSA 2",
			want:  date(2023, time.November, 12),
			found: true,
		},
		{
			name:  "single digit day and month",
			text:  "1/3/2024",
			want:  date(2024, time.March, 1),
			found: true,
		},
		{
			name:  "month out of range",
			text:  "05/13/2024",
			found: false,
		},
		{
			name:  "day out of range",
			text:  "45/03/2024",
			found: false,
		},
		{
			name:  "no date at all",
			text:  "TOTALE COMPLESSIVO EUR 12,50",
			found: false,
		},
		{
			name:  "empty text",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := p.FindDate(tt.text)
			if found != tt.found {
				t.Fatalf("FindDate(%q) found = %v, want %v", tt.text, found, tt.found)
			}
			if found && !got.Equal(tt.want) {
				t.Errorf("FindDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractPurchaseDateDefaultsToToday(t *testing.T) {
	p := NewReceiptParser()

	got := p.ExtractPurchaseDate("RICEVUTA SENZA DATA")

	now := time.Now()
	want := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ExtractPurchaseDate without date = %v, want today %v", got, want)
	}
}

func TestParseExpiryRollsOverMonthAndYear(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{
			name: "month boundary",
			text: "27/02/2024\nPROSCIUTTO CRUDO 0,150 kg",
			want: date(2024, time.March, 2),
		},
		{
			name: "year boundary",
			text: "29/12/2024\nPROSCIUTTO CRUDO 0,150 kg",
			want: date(2025, time.January, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := p.Parse(tt.text)
			if !parsed.ExpiryDate.Equal(tt.want) {
				t.Errorf("expiry = %v, want %v", parsed.ExpiryDate, tt.want)
			}
			if len(parsed.Products) != 1 {
				t.Fatalf("products = %d, want 1", len(parsed.Products))
			}
			if !parsed.Products[0].ExpiryDate.Equal(tt.want) {
				t.Errorf("product expiry = %v, want %v", parsed.Products[0].ExpiryDate, tt.want)
			}
		})
	}
}

func TestParseSingleLine(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name         string
		line         string
		wantName     string
		wantWeight   string
		wantCategory models.ProductCategory
	}{
		{
			name:         "cured meat with weight and price",
			line:         "PROSCIUTTO CRUDO 0,150 kg € 3,50",
			wantName:     "PROSCIUTTO CRUDO",
			wantWeight:   "0,150 kg",
			wantCategory: models.CategoryCuredMeats,
		},
		{
			name:         "dairy with weight and price",
			line:         "MOZZARELLA BUFALA 0,300 kg € 4,20",
			wantName:     "MOZZARELLA BUFALA",
			wantWeight:   "0,300 kg",
			wantCategory: models.CategoryDairy,
		},
		{
			name:         "fresh meat in grams",
			line:         "POLLO ARROSTO 450 gr 5,90",
			wantName:     "POLLO ARROSTO",
			wantWeight:   "450 gr",
			wantCategory: models.CategoryMeat,
		},
		{
			name:         "no weight on line",
			line:         "SALAME MILANO EUR 2,80",
			wantName:     "SALAME MILANO",
			wantCategory: models.CategoryCuredMeats,
		},
		{
			name:         "barcode noise stripped from name",
			line:         "8001234567890 RICOTTA FRESCA 1,50",
			wantName:     "RICOTTA FRESCA",
			wantCategory: models.CategoryDairy,
		},
		{
			name:         "lowercase ocr output",
			line:         "speck alto adige 0,100 kg 2,40",
			wantName:     "speck alto adige",
			wantWeight:   "0,100 kg",
			wantCategory: models.CategoryCuredMeats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := p.Parse(tt.line)
			if len(parsed.Products) != 1 {
				t.Fatalf("products = %d, want 1", len(parsed.Products))
			}

			got := parsed.Products[0]
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
			if tt.wantWeight == "" {
				if got.Weight != nil {
					t.Errorf("weight = %q, want none", *got.Weight)
				}
			} else {
				if got.Weight == nil {
					t.Fatalf("weight = nil, want %q", tt.wantWeight)
				}
				if *got.Weight != tt.wantWeight {
					t.Errorf("weight = %q, want %q", *got.Weight, tt.wantWeight)
				}
			}
			if !got.FromReceipt {
				t.Error("from_receipt = false, want true")
			}
		})
	}
}

func TestParseRejectsNonProductLines(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name string
		line string
	}{
		{name: "no lexicon keyword", line: "TOTALE COMPLESSIVO EUR 12,50"},
		{name: "header line", line: "SCONTRINO FISCALE"},
		{name: "too short line", line: "ab"},
		{name: "numeric only line", line: "1234567 89,00"},
		{name: "blank line", line: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := p.Parse(tt.line)
			if len(parsed.Products) != 0 {
				t.Errorf("products = %d, want 0 for %q", len(parsed.Products), tt.line)
			}
		})
	}
}

func TestParseFullReceipt(t *testing.T) {
	p := NewReceiptParser()

	ocrText := strings.Join([]string{
		"SALUMERIA DA MARIO",
		"VIA ROMA 12, NAPOLI",
		"01/03/2024 18:32",
		"",
		"MOZZARELLA BUFALA 0,300 kg € 4,20",
		"PROSCIUTTO COTTO 0,200 kg € 3,10",
		"TOTALE € 7,30",
		"ARRIVEDERCI E GRAZIE",
	}, "\n")

	parsed := p.Parse(ocrText)

	if want := date(2024, time.March, 1); !parsed.PurchaseDate.Equal(want) {
		t.Errorf("purchase date = %v, want %v", parsed.PurchaseDate, want)
	}
	if want := date(2024, time.March, 5); !parsed.ExpiryDate.Equal(want) {
		t.Errorf("expiry date = %v, want %v", parsed.ExpiryDate, want)
	}
	if len(parsed.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(parsed.Products))
	}

	first := parsed.Products[0]
	if first.Name != "MOZZARELLA BUFALA" {
		t.Errorf("first name = %q, want %q", first.Name, "MOZZARELLA BUFALA")
	}
	if first.Category != models.CategoryDairy {
		t.Errorf("first category = %q, want %q", first.Category, models.CategoryDairy)
	}

	second := parsed.Products[1]
	if second.Name != "PROSCIUTTO COTTO" {
		t.Errorf("second name = %q, want %q", second.Name, "PROSCIUTTO COTTO")
	}
	if second.Category != models.CategoryCuredMeats {
		t.Errorf("second category = %q, want %q", second.Category, models.CategoryCuredMeats)
	}

	for i, product := range parsed.Products {
		if !product.PurchaseDate.Equal(parsed.PurchaseDate) {
			t.Errorf("product %d purchase date = %v, want %v", i, product.PurchaseDate, parsed.PurchaseDate)
		}
		if !product.ExpiryDate.Equal(parsed.ExpiryDate) {
			t.Errorf("product %d expiry date = %v, want %v", i, product.ExpiryDate, parsed.ExpiryDate)
		}
		if !strings.HasPrefix(product.GeneratedCode, "RCP-") {
			t.Errorf("product %d code = %q, want RCP- prefix", i, product.GeneratedCode)
		}
	}
}

func TestParseIsDeterministicExceptCodes(t *testing.T) {
	p := NewReceiptParser()
	ocrText := "01/03/2024\nPROSCIUTTO CRUDO 0,150 kg € 3,50\nMOZZARELLA 0,250 kg € 2,90"

	a := p.Parse(ocrText)
	b := p.Parse(ocrText)

	if len(a.Products) != len(b.Products) {
		t.Fatalf("product counts differ: %d vs %d", len(a.Products), len(b.Products))
	}

	for i := range a.Products {
		pa, pb := a.Products[i], b.Products[i]
		if pa.Name != pb.Name || pa.Category != pb.Category {
			t.Errorf("product %d differs between runs: %+v vs %+v", i, pa, pb)
		}
		if !pa.PurchaseDate.Equal(pb.PurchaseDate) || !pa.ExpiryDate.Equal(pb.ExpiryDate) {
			t.Errorf("product %d dates differ between runs", i)
		}
		if pa.GeneratedCode == pb.GeneratedCode {
			t.Errorf("product %d codes collide across runs: %q", i, pa.GeneratedCode)
		}
	}
}

func TestExtractNameAndWeightLongName(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name string
		line string
	}{
		{name: "ascii overflow", line: "PROSCIUTTO " + strings.Repeat("X", 150)},
		{name: "multibyte rune at the boundary", line: "PROSCIUTTO DI PARMA " + strings.Repeat("A", 79) + "ÈFINE"},
		{name: "multibyte overflow", line: "PROSCIUTTO " + strings.Repeat("È", 150)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := p.Parse(tt.line)
			if len(parsed.Products) != 1 {
				t.Fatalf("products = %d, want 1", len(parsed.Products))
			}

			got := parsed.Products[0].Name
			if !utf8.ValidString(got) {
				t.Fatalf("truncated name is invalid UTF-8: %q", got)
			}
			if count := utf8.RuneCountInString(got); count > 100 {
				t.Errorf("name length = %d characters, want <= 100", count)
			}
		})
	}
}

func TestExtractNameAndWeightMinimumCharacters(t *testing.T) {
	p := NewReceiptParser()

	// Two accented characters occupy four bytes but are still only two
	// characters, below the minimum of three
	if name, _, ok := p.extractNameAndWeight("ÈÀ"); ok {
		t.Errorf("extractNameAndWeight(%q) accepted name %q, want rejection", "ÈÀ", name)
	}

	if _, _, ok := p.extractNameAndWeight("ÈÀÒ"); !ok {
		t.Errorf("extractNameAndWeight(%q) rejected a three-character name", "ÈÀÒ")
	}
}
