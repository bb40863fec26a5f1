package usecase

import (
	"context"
	"strconv"
)

type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	Signature string `json:"signature"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
}

type UploadSigner interface {
	Sign(params map[string]string) (UploadSignature, error)
}

type UploadService struct {
	Signer UploadSigner
	Clock  Clock
}

func NewUploadService(signer UploadSigner, clock Clock) *UploadService {
	return &UploadService{Signer: signer, Clock: clock}
}

// Sign returns parameters a signed-in user can post straight to the CDN.
func (s *UploadService) Sign(ctx context.Context, actor Actor, folder string) (*UploadSignature, error) {
	if actor.UserID == "" {
		return nil, &DomainError{Code: CodeForbidden, Message: "sign in to upload files"}
	}
	if !isValidFolder(folder) {
		return nil, validationFailed([]ValidationError{{"folder", "must be lowercase letters, digits, '-', '_' or '/'"}})
	}
	if s.Signer == nil {
		return nil, &TechnicalError{Code: CodeProvider, Message: "uploads are not configured"}
	}

	ts := s.Clock.now().Unix()
	sig, err := s.Signer.Sign(map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(ts, 10),
	})
	if err != nil {
		return nil, technical(CodeProvider, "failed to sign upload", err)
	}
	sig.Timestamp = ts
	sig.Folder = folder
	return &sig, nil
}
