package services

import (
	"time"

	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/validation"
)

// Clock decides which calendar date "today" is for the community.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// Today returns the current date in Location as YYYY-MM-DD.
func (c Clock) Today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(models.DateLayout)
}

func checkDate(date string) error {
	if !validation.IsDate(date) {
		return ErrInvalidDate
	}
	return nil
}
