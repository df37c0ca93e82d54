package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

const hojaLiquidacion = "Liquidacion"

// GenerarDetalleLiquidacion writes the settlement detail spreadsheet next to the
// PDF receipt: one row per settled line or adjustment, total at the bottom.
func GenerarDetalleLiquidacion(liq *model.Liquidacion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("excel: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, "liquidacion_"+liq.ID.String()+".xlsx")

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", hojaLiquidacion); err != nil {
		return "", fmt.Errorf("excel: rename sheet: %w", err)
	}

	headers := []any{"Tipo", "Detalle", "Fecha venta", "Cantidad", "Costo unitario", "Monto"}
	if err := f.SetSheetRow(hojaLiquidacion, "A1", &headers); err != nil {
		return "", fmt.Errorf("excel: header: %w", err)
	}

	row := 2
	for _, it := range liq.Items {
		detalle, fecha, costo := "", "", ""
		if it.VentaItem != nil {
			detalle = it.VentaItem.Descripcion
			costo = it.VentaItem.PrecioCosto.StringFixed(2)
			if it.VentaItem.Venta != nil {
				fecha = it.VentaItem.Venta.CreatedAt.Format("2006-01-02")
			}
		}
		monto, _ := it.Monto.Float64()
		values := []any{"Venta", detalle, fecha, it.Cantidad, costo, monto}
		if err := f.SetSheetRow(hojaLiquidacion, fmt.Sprintf("A%d", row), &values); err != nil {
			return "", fmt.Errorf("excel: row %d: %w", row, err)
		}
		row++
	}
	for _, a := range liq.Ajustes {
		monto, _ := a.Monto.Float64()
		values := []any{"Ajuste", a.Descripcion, a.CreatedAt.Format("2006-01-02"), "", "", monto}
		if err := f.SetSheetRow(hojaLiquidacion, fmt.Sprintf("A%d", row), &values); err != nil {
			return "", fmt.Errorf("excel: row %d: %w", row, err)
		}
		row++
	}

	total, _ := liq.Total.Float64()
	f.SetCellValue(hojaLiquidacion, fmt.Sprintf("E%d", row), "TOTAL")
	f.SetCellValue(hojaLiquidacion, fmt.Sprintf("F%d", row), total)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("excel: write file: %w", err)
	}
	return filePath, nil
}
