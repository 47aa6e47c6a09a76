package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
)

// maxFrameBytes bounds an uploaded camera frame.
const maxFrameBytes = 4 << 20

type QRCodeHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Regenerate(w http.ResponseWriter, r *http.Request)
	GetByEmployee(w http.ResponseWriter, r *http.Request)
	Image(w http.ResponseWriter, r *http.Request)
	GenerateBulk(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	Scan(w http.ResponseWriter, r *http.Request)
}

type qrCodeHandlerImpl struct {
	qrCodeService qrcode.QRCodeService
}

func NewQRCodeHandler(qrCodeService qrcode.QRCodeService) QRCodeHandler {
	return &qrCodeHandlerImpl{qrCodeService: qrCodeService}
}

func (h *qrCodeHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	code, err := h.qrCodeService.Generate(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "QR code generated", code)
}

// Regenerate voids the employee's current credential; printed badges stop working.
func (h *qrCodeHandlerImpl) Regenerate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	code, err := h.qrCodeService.Regenerate(r.Context(), employeeID, confirm.FromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "QR code regenerated", code)
}

func (h *qrCodeHandlerImpl) GetByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	code, err := h.qrCodeService.GetByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, code)
}

// Image serves the credential as a PNG badge.
func (h *qrCodeHandlerImpl) Image(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	png, err := h.qrCodeService.RenderPNG(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *qrCodeHandlerImpl) GenerateBulk(w http.ResponseWriter, r *http.Request) {
	results, err := h.qrCodeService.GenerateBulk(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "QR codes generated", results)
}

func (h *qrCodeHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	var req qrcode.ValidateRequest
	if !decodeJSON(w, r, &req, "ValidateQRCode") {
		return
	}

	result, err := h.qrCodeService.Validate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn validates a decoded payload and records today's presence.
func (h *qrCodeHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req qrcode.CheckInRequest
	if !decodeJSON(w, r, &req, "CheckIn") {
		return
	}

	result, err := h.qrCodeService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// Scan accepts one camera frame as multipart field 'frame' with the pay run in 'payRunId'.
func (h *qrCodeHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFrameBytes+1<<20)
	if err := r.ParseMultipartForm(maxFrameBytes); err != nil {
		slog.Error("Failed to parse scan frame", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	payRunID := r.FormValue("payRunId")
	if payRunID == "" {
		response.ValidationError(w, map[string]string{"payRunId": "payRunId is required"})
		return
	}

	file, _, err := r.FormFile("frame")
	if err != nil {
		response.ValidationError(w, map[string]string{"frame": "frame is required"})
		return
	}
	defer file.Close()

	frame, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read frame", nil)
		return
	}

	result, err := h.qrCodeService.CheckInFromImage(r.Context(), payRunID, frame)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}
