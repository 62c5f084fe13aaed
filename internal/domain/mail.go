package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type ResetPasswordMailData struct {
	Email      string `json:"email"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type WaitlistMailData struct {
	FirstName string `json:"firstName"`
	City      string `json:"city"`
}
