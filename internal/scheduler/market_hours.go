package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// MarketHoursService answers whether US equity markets are trading. The
// watchlist refresh runs after the close, so the only question that matters
// is "was today a session day".
type MarketHoursService struct {
	loc      *time.Location
	holidays map[string]struct{}
	log      zerolog.Logger
}

// usHolidays2026 are NYSE/NASDAQ full-day closures
var usHolidays2026 = []string{
	"2026-01-01", // New Year's Day
	"2026-01-19", // MLK Day
	"2026-02-16", // Presidents Day
	"2026-04-03", // Good Friday
	"2026-05-25", // Memorial Day
	"2026-06-19", // Juneteenth
	"2026-07-03", // Independence Day (observed)
	"2026-09-07", // Labor Day
	"2026-11-26", // Thanksgiving
	"2026-12-25", // Christmas
}

// NewMarketHoursService creates the US market calendar
func NewMarketHoursService(log zerolog.Logger) *MarketHoursService {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	holidays := make(map[string]struct{}, len(usHolidays2026))
	for _, d := range usHolidays2026 {
		holidays[d] = struct{}{}
	}

	return &MarketHoursService{
		loc:      loc,
		holidays: holidays,
		log:      log.With().Str("component", "market_hours").Logger(),
	}
}

// IsTradingDay reports whether t falls on a US session day
func (s *MarketHoursService) IsTradingDay(t time.Time) bool {
	local := t.In(s.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := s.holidays[local.Format("2006-01-02")]
	return !holiday
}

// IsMarketOpen reports whether t is inside regular US trading hours
// (09:30-16:00 ET on a session day)
func (s *MarketHoursService) IsMarketOpen(t time.Time) bool {
	if !s.IsTradingDay(t) {
		return false
	}
	local := t.In(s.loc)
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}
