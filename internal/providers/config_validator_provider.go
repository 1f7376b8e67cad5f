package providers

import (
	"fmt"
	"time"

	"github.com/gookit/validate"

	"renewalpulse/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct tag rules plus the checks tags cannot express:
// trigger times must be HH:MM so the scheduler never sees a bad clock value.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors.OneError()
	}

	if err := checkClock("reminder.sweepAt", cv.conf.Reminder.SweepAt); err != nil {
		return err
	}
	if err := checkClock("rates.refreshAt", cv.conf.Rates.RefreshAt); err != nil {
		return err
	}
	if cv.conf.Notify.Email.Enabled && cv.conf.Notify.Email.Host == "" {
		return fmt.Errorf("notify.email.host is required when email is enabled")
	}
	if cv.conf.Notify.Telegram.Enabled &&
		(cv.conf.Notify.Telegram.BotToken == "" || cv.conf.Notify.Telegram.ChatID == "") {
		return fmt.Errorf("notify.telegram needs botToken and chatId when enabled")
	}
	return nil
}

func checkClock(field, value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("%s must be HH:MM, got %q", field, value)
	}
	return nil
}
