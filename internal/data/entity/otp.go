package entity

import "time"

// OTP is a one-time code bound to an email address. Expiry is derived from
// CreatedAt and the configured validity window.
type OTP struct {
	BaseSimple
	Email   string `db:"email"`
	OTPCode string `db:"otp_code"`
}

func (o *OTP) IsExpired(now time.Time, window time.Duration) bool {
	return now.Sub(o.CreatedAt) > window
}
