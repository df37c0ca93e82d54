package infra

// pdf.go renders the settlement receipt handed to a consignment owner.
// Layout: shop header, owner and date, one row per settled sale line,
// one row per applied adjustment, bold total.
// The file is written to storagePath/liquidacion_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// GenerarComprobanteLiquidacion writes the receipt PDF for a loaded Liquidacion
// (Proveedor, Items.VentaItem and Ajustes preloaded) and returns its path.
func GenerarComprobanteLiquidacion(liq *model.Liquidacion, nombreComercio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, "liquidacion_"+liq.ID.String()+".pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(nombreComercio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Liquidación de consignación"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	proveedor := ""
	if liq.Proveedor != nil {
		proveedor = liq.Proveedor.Nombre
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, tr("Proveedor: "+proveedor), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Fecha: "+liq.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Comprobante: "+liq.ID.String(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	col1 := contentW * 0.60
	col2 := contentW * 0.15
	col3 := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Detalle", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Monto", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range liq.Items {
		detalle := "Venta"
		if it.VentaItem != nil {
			detalle = it.VentaItem.Descripcion
		}
		if len(detalle) > 60 {
			detalle = detalle[:59] + "..."
		}
		pdf.CellFormat(col1, 5, tr(detalle), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", it.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+it.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	for _, a := range liq.Ajustes {
		pdf.CellFormat(col1, 5, tr("Ajuste: "+a.Descripcion), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "", "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+a.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 7, "TOTAL PAGADO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+liq.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
