package handlers

import (
	"context"
	"net/http"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type UploadSigner interface {
	Sign(ctx context.Context, actor usecase.Actor, folder string) (*usecase.UploadSignature, error)
}

type UploadHandler struct {
	Uploads UploadSigner
}

func NewUploadHandler(u UploadSigner) *UploadHandler {
	return &UploadHandler{Uploads: u}
}

func (h *UploadHandler) Signature(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req struct {
		Folder string `json:"folder"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sig, err := h.Uploads.Sign(r.Context(), actor, req.Folder)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sig)
}
