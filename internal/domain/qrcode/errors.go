package qrcode

import "errors"

// The scan failures are distinct so the operator sees a specific message; none ends the session.
var (
	ErrQRCodeNotFound    = errors.New("QR code not found")
	ErrInvalidCredential = errors.New("QR code invalide ou expiré")
	ErrNoCodeDetected    = errors.New("aucun QR code détecté dans l'image")
	ErrCameraUnavailable = errors.New("caméra inaccessible, vérifiez les autorisations")
	ErrScanThrottled     = errors.New("scan ignoré, patientez avant le prochain passage")
)
