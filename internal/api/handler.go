// Package api отдаёт браузерному фронтенду JSON-интерфейс кассы.
// Мутации журнала возвращают полный снапшот состояния: фронтенд не ведёт
// собственной копии, а перерисовывается из ответа. «Тихие» отказы ядра
// отдаются как 200 с неизменённым снапшотом.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/mendoza-ahrensburg/kasse/internal/dispatch"
	"github.com/mendoza-ahrensburg/kasse/internal/domain"
	"github.com/mendoza-ahrensburg/kasse/internal/service/ledger"
	"github.com/mendoza-ahrensburg/kasse/internal/service/supplier"
)

const maxBodyBytes = 1 << 20

// Handler обслуживает HTTP-интерфейс кассы.
type Handler struct {
	svc       *ledger.Service
	catalog   domain.Catalog
	suppliers []domain.Supplier
	logger    *log.Entry
}

// NewHandler создаёт обработчик поверх сервиса журнала и статических данных.
func NewHandler(svc *ledger.Service, catalog domain.Catalog, suppliers []domain.Supplier, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "api")
	}
	return &Handler{
		svc:       svc,
		catalog:   catalog,
		suppliers: suppliers,
		logger:    logger,
	}
}

// RegisterRoutes вешает маршруты кассы на роутер.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.GetCatalog)
		r.Get("/suppliers", h.ListSuppliers)
		r.Post("/suppliers/{id}/message", h.ComposeSupplierMessage)

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.ListTables)
			r.Post("/", h.CreateTable)
			r.Delete("/{id}", h.DeleteTable)

			r.Post("/{id}/lines", h.AddLine)
			r.Post("/{id}/lines/increase", h.IncreaseLine)
			r.Post("/{id}/lines/remove", h.RemoveLine)
			r.Post("/{id}/misc", h.AddMiscCharge)
			r.Post("/{id}/receipt", h.PrintReceipt)
		})
	})
}

// GetCatalog отдаёт меню с уже присвоенными идентификаторами.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog)
}

// ListSuppliers отдаёт поставщиков вместе с пустыми черновиками заказа.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	drafts := make([]supplier.Draft, len(h.suppliers))
	for i, s := range h.suppliers {
		drafts[i] = supplier.NewDraft(s)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"suppliers": drafts})
}

type supplierMessageRequest struct {
	Rows []supplier.Row `json:"rows"`
}

type supplierMessageResponse struct {
	Channel string `json:"channel"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
	URL     string `json:"url"`
}

// ComposeSupplierMessage собирает текст заказа и исходящую ссылку для
// канала поставщика.
func (h *Handler) ComposeSupplierMessage(w http.ResponseWriter, r *http.Request) {
	var found *domain.Supplier
	id := chi.URLParam(r, "id")
	for i := range h.suppliers {
		if h.suppliers[i].ID == id {
			found = &h.suppliers[i]
			break
		}
	}
	if found == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown supplier"})
		return
	}

	var req supplierMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft := supplier.Draft{Supplier: *found}
	for _, row := range req.Rows {
		row.Quantity = supplier.SanitizeQuantity(row.Quantity)
		draft = draft.WithRow(row)
	}

	var resp supplierMessageResponse
	switch found.ContactType {
	case domain.ContactWhatsApp:
		body := draft.WhatsAppBody()
		resp = supplierMessageResponse{
			Channel: string(domain.ContactWhatsApp),
			Body:    body,
			URL:     dispatch.WhatsAppURL(found.Contact, body),
		}
	default:
		subject := draft.EmailSubject()
		body := draft.EmailBody()
		resp = supplierMessageResponse{
			Channel: string(domain.ContactEmail),
			Subject: subject,
			Body:    body,
			URL:     dispatch.MailtoURL(found.Contact, subject, body),
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ListTables отдаёт текущий снапшот журнала.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

type createTableRequest struct {
	Name string `json:"name"`
}

// CreateTable открывает новый стол.
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := h.svc.CreateTable(r.Context(), req.Name)
	h.writeSnapshot(w, snap, err)
}

// DeleteTable закрывает стол.
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(r)
	if !ok {
		h.writeJSON(w, http.StatusOK, h.svc.Snapshot())
		return
	}
	snap, err := h.svc.DeleteTable(r.Context(), id)
	h.writeSnapshot(w, snap, err)
}

type lineRequest struct {
	Item domain.MenuItem `json:"item"`
}

// AddLine добавляет позицию на стол.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.svc.AddLine)
}

// IncreaseLine увеличивает количество существующей строки.
func (h *Handler) IncreaseLine(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.svc.IncreaseLine)
}

// RemoveLine уменьшает количество строки или удаляет её.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.svc.RemoveLine)
}

type miscRequest struct {
	Amount string `json:"amount"`
}

// AddMiscCharge добавляет произвольную сумму строкой "Divers".
func (h *Handler) AddMiscCharge(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(r)
	if !ok {
		h.writeJSON(w, http.StatusOK, h.svc.Snapshot())
		return
	}
	var req miscRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := h.svc.AddMiscCharge(r.Context(), id, req.Amount)
	h.writeSnapshot(w, snap, err)
}

type receiptResponse struct {
	Receipt  *domain.ReceiptDocument `json:"receipt"`
	Number   int64                   `json:"number,omitempty"`
	PrintURL string                  `json:"printUrl,omitempty"`
}

// PrintReceipt собирает квитанцию стола и ссылку для приложения печати.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(r)
	if !ok {
		h.writeJSON(w, http.StatusOK, receiptResponse{})
		return
	}

	doc, number, err := h.svc.PrintReceipt(r.Context(), id)
	if err != nil {
		if domain.IsNoOp(err) {
			h.writeJSON(w, http.StatusOK, receiptResponse{})
			return
		}
		h.internalError(w, err)
		return
	}

	printURL, err := dispatch.PrintURL(doc)
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, receiptResponse{
		Receipt:  &doc,
		Number:   number,
		PrintURL: printURL,
	})
}

func (h *Handler) lineOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, tableID int64, item domain.MenuItem) (domain.Ledger, error)) {
	id, ok := h.tableID(r)
	if !ok {
		h.writeJSON(w, http.StatusOK, h.svc.Snapshot())
		return
	}
	var req lineRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := op(r.Context(), id, req.Item)
	h.writeSnapshot(w, snap, err)
}

// tableID разбирает идентификатор стола из пути. Нечисловой идентификатор
// трактуется как неизвестный стол: операция становится тихим no-op.
func (h *Handler) tableID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// writeSnapshot отдаёт снапшот журнала: тихие отказы — это 200 с
// неизменённым состоянием, ошибки хранилища — 500.
func (h *Handler) writeSnapshot(w http.ResponseWriter, snap domain.Ledger, err error) {
	if err != nil && !domain.IsNoOp(err) {
		h.internalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("request failed")
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("encode response")
	}
}
