package mail

import "github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"

var subjects = map[usecase.NotificationKind]string{
	usecase.NotifyLeadReceived:    "New travel enquiry received",
	usecase.NotifyCustomerWelcome: "Your trip enquiry and account details",
	usecase.NotifyMemberWelcome:   "Welcome to the team",
	usecase.NotifyAgentAssigned:   "A new lead was assigned to you",
	usecase.NotifyEmailOTP:        "Your verification code",
	usecase.NotifyNewsletter:      "Thanks for subscribing",
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer dialer
}
