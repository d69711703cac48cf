package render

import (
	"dealdesk/internal/models"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheet = "Документ"

var tableHeader = []string{"№", "Наименование", "Артикул", "Кол-во", "Ед.", "Цена", "Сумма"}

// WriteXLSX renders doc as a single-sheet workbook.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("Не удалось подготовить лист: %w", err)
	}

	set := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	lines := [][2]any{
		{doc.Heading(), nil},
		{"Поставщик:", partyLine(doc.Seller)},
		{"Покупатель:", partyLine(doc.Buyer)},
	}
	row := 1
	for _, line := range lines {
		if err := set(1, row, line[0]); err != nil {
			return err
		}
		if line[1] != nil {
			if err := set(2, row, line[1]); err != nil {
				return err
			}
		}
		row++
	}
	row++

	for col, title := range tableHeader {
		if err := set(col+1, row, title); err != nil {
			return err
		}
	}
	row++

	for _, r := range doc.Rows {
		values := []any{r.Index, r.Name, r.Article, r.Quantity.InexactFloat64(), r.Unit, r.Price.InexactFloat64(), r.Amount.InexactFloat64()}
		for col, v := range values {
			if err := set(col+1, row, v); err != nil {
				return err
			}
		}
		row++
	}

	if err := set(6, row, "Итого:"); err != nil {
		return err
	}
	if err := set(7, row, doc.Total.InexactFloat64()); err != nil {
		return err
	}
	row++

	if err := set(1, row, "Всего к оплате: "+capitalize(doc.TotalWords)); err != nil {
		return err
	}
	if doc.Comments != "" {
		row++
		if err := set(1, row, "Комментарий: "+doc.Comments); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("Не удалось записать документ: %w", err)
	}
	return nil
}

func partyLine(p models.Party) string {
	parts := []string{}
	for _, s := range []string{p.CompanyName, innPart(p.INN), p.LegalAddress, p.Phone} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func innPart(inn string) string {
	if inn == "" {
		return ""
	}
	return "ИНН " + inn
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
