package handlers

import (
	"context"
	"net/http"
)

type OTPSender interface {
	SendSMS(ctx context.Context, phone string) (string, error)
	VerifySMS(ctx context.Context, phone, verificationID, code string) error
	SendEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
}

type OTPHandler struct {
	OTP OTPSender
}

func NewOTPHandler(otp OTPSender) *OTPHandler {
	return &OTPHandler{OTP: otp}
}

func (h *OTPHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.OTP.SendSMS(r.Context(), req.Phone)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"verificationId": id})
}

func (h *OTPHandler) VerifySMS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone          string `json:"phone"`
		VerificationID string `json:"verificationId"`
		Code           string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.OTP.VerifySMS(r.Context(), req.Phone, req.VerificationID, req.Code); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *OTPHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.OTP.SendEmail(r.Context(), req.Email); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *OTPHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.OTP.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
