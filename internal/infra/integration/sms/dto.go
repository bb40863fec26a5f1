package sms

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type sendResponse struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
	Data         struct {
		VerificationID string `json:"verificationId"`
	} `json:"data"`
}

type validateResponse struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
	Data         struct {
		VerificationStatus string `json:"verificationStatus"`
	} `json:"data"`
}

const statusVerified = "VERIFICATION_COMPLETED"
