package http

import (
	"bytes"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/document"
	"github.com/paydesk/payroll-console/internal/pkg/export"
)

// PayrollHandler serves pay cycles, the payment ledger and the documents derived from them.
type PayrollHandler interface {
	// Pay runs
	ListPayRuns(w http.ResponseWriter, r *http.Request)
	GetPayRun(w http.ResponseWriter, r *http.Request)
	CreatePayRun(w http.ResponseWriter, r *http.Request)
	UpdatePayRun(w http.ResponseWriter, r *http.Request)
	DeletePayRun(w http.ResponseWriter, r *http.Request)
	GeneratePayslips(w http.ResponseWriter, r *http.Request)
	ApprovePayRun(w http.ResponseWriter, r *http.Request)
	ClosePayRun(w http.ResponseWriter, r *http.Request)

	// Ledger
	ListPending(w http.ResponseWriter, r *http.Request)
	OpenCapture(w http.ResponseWriter, r *http.Request)
	SubmitPayment(w http.ResponseWriter, r *http.Request)
	ListPayments(w http.ResponseWriter, r *http.Request)
	GetPayment(w http.ResponseWriter, r *http.Request)
	UpdatePayment(w http.ResponseWriter, r *http.Request)
	DeletePayment(w http.ResponseWriter, r *http.Request)
	PaymentStats(w http.ResponseWriter, r *http.Request)

	// Documents
	PayslipDocument(w http.ResponseWriter, r *http.Request)
	ReceiptDocument(w http.ResponseWriter, r *http.Request)
	ExportPayments(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payRunService  payroll.PayRunService
	paymentService payroll.PaymentService
}

func NewPayrollHandler(payRunService payroll.PayRunService, paymentService payroll.PaymentService) PayrollHandler {
	return &payrollHandlerImpl{
		payRunService:  payRunService,
		paymentService: paymentService,
	}
}

func (h *payrollHandlerImpl) ListPayRuns(w http.ResponseWriter, r *http.Request) {
	payRuns, err := h.payRunService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payRuns)
}

func (h *payrollHandlerImpl) GetPayRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay run ID")
	if !ok {
		return
	}

	payRun, err := h.payRunService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payRun)
}

func (h *payrollHandlerImpl) CreatePayRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayRunRequest
	if !decodeJSON(w, r, &req, "CreatePayRun") {
		return
	}

	created, err := h.payRunService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay run created successfully", created)
}

func (h *payrollHandlerImpl) UpdatePayRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay run ID")
	if !ok {
		return
	}

	var req payroll.UpdatePayRunRequest
	if !decodeJSON(w, r, &req, "UpdatePayRun") {
		return
	}
	req.ID = id

	updated, err := h.payRunService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run updated successfully", updated)
}

func (h *payrollHandlerImpl) DeletePayRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay run ID")
	if !ok {
		return
	}

	if err := h.payRunService.Delete(r.Context(), id, confirm.FromRequest(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run deleted successfully", nil)
}

func (h *payrollHandlerImpl) GeneratePayslips(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay run ID")
	if !ok {
		return
	}

	result, err := h.payRunService.GeneratePayslips(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslips generated", result)
}

func (h *payrollHandlerImpl) ApprovePayRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay run ID")
	if !ok {
		return
	}

	result, err := h.payRunService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run approved", result)
}

func (h *payrollHandlerImpl) ClosePayRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay run ID")
	if !ok {
		return
	}

	result, err := h.payRunService.Close(r.Context(), id, confirm.FromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run closed", result)
}

func (h *payrollHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.paymentService.Pending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, pending, &response.Meta{TotalItems: int64(len(pending))})
}

func (h *payrollHandlerImpl) OpenCapture(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Payslip ID")
	if !ok {
		return
	}

	capture, err := h.paymentService.OpenCapture(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, capture)
}

func (h *payrollHandlerImpl) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req payroll.SubmitPaymentRequest
	if !decodeJSON(w, r, &req, "SubmitPayment") {
		return
	}

	result, err := h.paymentService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded", result)
}

func (h *payrollHandlerImpl) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentService.History(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, payments, &response.Meta{TotalItems: int64(len(payments))})
}

func (h *payrollHandlerImpl) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Payment ID")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *payrollHandlerImpl) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Payment ID")
	if !ok {
		return
	}

	var req payroll.UpdatePaymentRequest
	if !decodeJSON(w, r, &req, "UpdatePayment") {
		return
	}
	req.ID = id

	updated, err := h.paymentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment updated successfully", updated)
}

func (h *payrollHandlerImpl) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Payment ID")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(r.Context(), id, confirm.FromRequest(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment deleted successfully", nil)
}

func (h *payrollHandlerImpl) PaymentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.paymentService.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// PayslipDocument renders the payslip as HTML. The body is buffered so a render
// failure still produces a JSON error.
func (h *payrollHandlerImpl) PayslipDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Payslip ID")
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.paymentService.RenderPayslip(r.Context(), id, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, document.ContentType, filename, buf.Bytes())
}

func (h *payrollHandlerImpl) ReceiptDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Payment ID")
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.paymentService.RenderReceipt(r.Context(), id, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, document.ContentType, filename, buf.Bytes())
}

func (h *payrollHandlerImpl) ExportPayments(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := h.paymentService.ExportHistory(r.Context(), &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, export.ContentType, filename, buf.Bytes())
}
