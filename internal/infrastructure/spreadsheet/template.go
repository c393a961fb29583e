package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const (
	templateSheet     = "Empresas"
	instructionsSheet = "Instruções"
	requiredMarker    = " *"
)

var instructions = []string{
	"Preencha uma empresa por linha a partir da linha 2 da aba Empresas.",
	"Colunas marcadas com * são obrigatórias.",
	"Telefone do contato: informe o DD e o número do celular em colunas separadas, por exemplo 11 e 98765-4321.",
	"Gerente: use o nome de um vendedor ou administrador cadastrado. O primeiro nome precisa identificar uma única pessoa.",
	"Tipo: deixe em branco para importar como Lead. Leads recebem uma oportunidade no primeiro estágio do funil.",
	"Faturamento anual aceita valores como 1500000,00 ou R$ 1.500.000,00.",
	"Arquivos aceitos: .xlsx, .xls ou .csv com até 10 MB.",
}

// WriteCSVTemplate writes the header and an example row, separated by ';'
// with a BOM so Excel opens the accents correctly.
func WriteCSVTemplate(w io.Writer, columns []domain.TemplateColumn) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write csv template: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := make([]string, 0, len(columns))
	example := make([]string, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Header)
		example = append(example, col.Example)
	}
	if err := cw.WriteAll([][]string{header, example}); err != nil {
		return fmt.Errorf("write csv template: %w", err)
	}
	return nil
}

func WriteXLSXTemplate(w io.Writer, columns []domain.TemplateColumn) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1F4E78"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, col := range columns {
		header := col.Header
		if col.Required {
			header += requiredMarker
		}
		if err := setCell(f, templateSheet, i+1, 1, header); err != nil {
			return err
		}
		if err := setCell(f, templateSheet, i+1, 2, col.Example); err != nil {
			return err
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(templateSheet, name, name, float64(max(len(header), len(col.Example))+4)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if len(columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(columns), 1)
		if err != nil {
			return fmt.Errorf("header range: %w", err)
		}
		if err := f.SetCellStyle(templateSheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return fmt.Errorf("create instructions sheet: %w", err)
	}
	for i, line := range instructions {
		if err := setCell(f, instructionsSheet, 1, i+1, line); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(instructionsSheet, "A", "A", 110); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx template: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}
