package worker

// email_worker.go
// Processes notification jobs from the email queue: PDF sale receipts,
// password reset mails, and low-stock alerts.

import (
	"context"
	"encoding/json"

	"github.com/fadesignlk/stock-master-api/internal/infra"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailWorker renders and sends outbound mail. Receipt jobs reload the sale so
// the PDF reflects the committed state, not the enqueue-time snapshot.
type EmailWorker struct {
	mailer      *infra.Mailer
	sales       repository.SaleRepository
	storagePath string
	alertTo     string
}

func NewEmailWorker(mailer *infra.Mailer, sales repository.SaleRepository, storagePath, alertTo string) *EmailWorker {
	return &EmailWorker{mailer: mailer, sales: sales, storagePath: storagePath, alertTo: alertTo}
}

// ProcessReceipt renders the sale receipt PDF and mails it to the customer.
func (w *EmailWorker) ProcessReceipt(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid receipt payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping receipt")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("email_worker: malformed sale id")
		return
	}
	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("email_worker: loading sale")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("email_worker: rendering receipt")
		return
	}

	if err := w.mailer.SendReceipt(payload.ToEmail, "Your receipt",
		"Thank you for your purchase. Your receipt is attached.", pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: sending receipt")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("sale_id", payload.SaleID).
		Msg("email_worker: receipt sent")
}

// ProcessPasswordReset mails the reset link.
func (w *EmailWorker) ProcessPasswordReset(_ context.Context, raw json.RawMessage) {
	var payload PasswordResetPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid password reset payload")
		return
	}
	if err := w.mailer.SendPasswordReset(payload.ToEmail, payload.Token); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: sending password reset")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: password reset sent")
}

// ProcessLowStock mails the operations inbox.
func (w *EmailWorker) ProcessLowStock(_ context.Context, raw json.RawMessage) {
	var payload LowStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid low stock payload")
		return
	}
	if w.alertTo == "" || len(payload.Lines) == 0 {
		return
	}
	if err := w.mailer.SendLowStockAlert(w.alertTo, payload.Lines); err != nil {
		log.Error().Err(err).Msg("email_worker: sending low stock alert")
		return
	}
	log.Info().Int("lines", len(payload.Lines)).Msg("email_worker: low stock alert sent")
}
