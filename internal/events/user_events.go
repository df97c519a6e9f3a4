package events

import "time"

// OTPPurpose distinguishes the flow that produced a verification code so
// the mail template can say why the user is receiving it.
type OTPPurpose string

const (
	OTPRegister OTPPurpose = "register"
	OTPLogin    OTPPurpose = "login"
)

// OTPIssued is handed to the notify dispatcher whenever a verification
// code is generated.
type OTPIssued struct {
	UserID  string     `json:"userId"`
	Email   string     `json:"email"`
	Code    string     `json:"code"`
	Purpose OTPPurpose `json:"purpose"`
	At      time.Time  `json:"at"`
}
