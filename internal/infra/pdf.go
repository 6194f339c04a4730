package infra

// pdf.go — thermal receipt-style PDF documents using go-pdf/fpdf.
// Two renderers share the same A7-ish page layout: the sale ticket and the
// credit note for an applied return. Output files land under the configured
// storage directory as ticket_{numero}.pdf / nota_credito_{numero}_{n}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// nuevoTicketPDF builds the shared page: custom size close to 74mm thermal
// paper, tight margins, business header.
func nuevoTicketPDF(titulo string) (*fpdf.Fpdf, float64) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "FarmaPOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, titulo, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	return pdf, contentW
}

func separador(pdf *fpdf.Fpdf) {
	pageW, _ := pdf.GetPageSize()
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)
}

// GenerarTicketPDF renders the receipt for a committed sale.
// Returns the absolute path to the generated file.
func GenerarTicketPDF(venta *model.Venta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("ticket_%d.pdf", venta.NumeroTicket))

	pdf, contentW := nuevoTicketPDF("Comprobante de Compra")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Ticket N° %d", venta.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	separador(pdf)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		cant := fmt.Sprintf("x%d", item.Cantidad)
		if item.Modo == "unidad" {
			cant = fmt.Sprintf("x%du", item.Cantidad)
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, cant, "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	separador(pdf)

	pdf.SetFont("Helvetica", "", 7)
	if !venta.Descuento.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-$"+venta.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !venta.IVA.IsZero() {
		pdf.CellFormat(col1+col2, 5, "IVA:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+venta.IVA.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pago ("+venta.MetodoPago+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.MontoRecibido.StringFixed(2), "", 1, "R", false, 0, "")
	if venta.MetodoPago == "efectivo" && !venta.Vuelto.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Vuelto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+venta.Vuelto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerarNotaCreditoPDF renders the credit note for an applied return.
func GenerarNotaCreditoPDF(venta *model.Venta, devolucion *model.Devolucion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath,
		fmt.Sprintf("nota_credito_%d_%s.pdf", venta.NumeroTicket, devolucion.ID.String()[:8]))

	pdf, contentW := nuevoTicketPDF("Nota de Crédito")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venta Ticket N° %d", venta.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, devolucion.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	separador(pdf)

	// Product names come from the sale's items, keyed by (producto, lote).
	nombres := make(map[string]string)
	for _, item := range venta.Items {
		if item.Producto != nil {
			nombres[item.ProductoID.String()+"|"+item.LoteID.String()] = item.Producto.Nombre
		}
	}

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Unid", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Crédito", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range devolucion.Items {
		nombre := nombres[item.ProductoID.String()+"|"+item.LoteID.String()]
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.UnidadesDevueltas), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Credito.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	separador(pdf)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "CRÉDITO TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+devolucion.CreditoTotal.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
