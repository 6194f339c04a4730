package worker

// ticket_worker.go
// Renders thermal-style PDF documents for committed sales and applied returns.
// The sale itself never waits on this: a failed render leaves the ticket row
// in estado "error" and the operator can re-print from the sales screen.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/infra"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TicketWorker struct {
	ticketRepo     repository.TicketRepository
	ventaRepo      repository.VentaRepository
	devolucionRepo repository.DevolucionRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewTicketWorker(
	ticketRepo repository.TicketRepository,
	ventaRepo repository.VentaRepository,
	devolucionRepo repository.DevolucionRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *TicketWorker {
	return &TicketWorker{
		ticketRepo:     ticketRepo,
		ventaRepo:      ventaRepo,
		devolucionRepo: devolucionRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload TicketPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("ticket_worker: invalid venta_id")
		return
	}
	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: venta not found")
		return
	}

	tipo := "ticket"
	var devolucion *model.Devolucion
	if payload.DevolucionID != "" {
		tipo = "nota_credito"
		devolucionID, err := uuid.Parse(payload.DevolucionID)
		if err != nil {
			log.Error().Str("devolucion_id", payload.DevolucionID).Msg("ticket_worker: invalid devolucion_id")
			return
		}
		devoluciones, err := w.devolucionRepo.ListByVenta(ctx, ventaID)
		if err != nil {
			log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: cannot list devoluciones")
			return
		}
		for i := range devoluciones {
			if devoluciones[i].ID == devolucionID {
				devolucion = &devoluciones[i]
				break
			}
		}
		if devolucion == nil {
			log.Error().Str("devolucion_id", payload.DevolucionID).Msg("ticket_worker: devolucion not found")
			return
		}
	}

	ticket := &model.Ticket{
		VentaID: ventaID,
		Tipo:    tipo,
		Estado:  "pendiente",
	}
	if devolucion != nil {
		devID := devolucion.ID
		ticket.DevolucionID = &devID
	}
	if err := w.ticketRepo.Create(ctx, ticket); err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: failed to create ticket record")
		return
	}

	var pdfPath string
	if devolucion != nil {
		pdfPath, err = infra.GenerarNotaCreditoPDF(venta, devolucion, w.pdfStoragePath)
	} else {
		pdfPath, err = infra.GenerarTicketPDF(venta, w.pdfStoragePath)
	}
	if err != nil {
		log.Warn().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generation failed")
		ticket.Estado = "error"
		msg := err.Error()
		ticket.LastError = &msg
		_ = w.ticketRepo.Update(ctx, ticket)
		return
	}

	ticket.Estado = "generado"
	ticket.PDFPath = &pdfPath
	if err := w.ticketRepo.Update(ctx, ticket); err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: failed to update ticket record")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generated")

	// Async email when the sale has a registered customer with email.
	if venta.Cliente != nil && venta.Cliente.Email != nil && *venta.Cliente.Email != "" {
		subject := fmt.Sprintf("FarmaPOS — Ticket #%d", venta.NumeroTicket)
		body := fmt.Sprintf("Adjunto encontrarás tu comprobante de compra.\nTotal: $%s", venta.Total.StringFixed(2))
		if devolucion != nil {
			subject = fmt.Sprintf("FarmaPOS — Nota de crédito, Ticket #%d", venta.NumeroTicket)
			body = fmt.Sprintf("Adjunto encontrarás tu nota de crédito.\nCrédito: $%s", devolucion.CreditoTotal.StringFixed(2))
		}
		emailJob := EmailPayload{
			ToEmail: *venta.Cliente.Email,
			Subject: subject,
			Body:    body,
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *venta.Cliente.Email).Msg("ticket_worker: failed to enqueue email")
		}
	}
}
