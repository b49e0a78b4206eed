package backtest

import (
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
)

// DateFormat is the compact date layout used by configs and the CLI.
const DateFormat = "20060102"

// BuildDateList returns every calendar day from start to end, both inclusive,
// as UTC midnights.
func BuildDateList(start, end time.Time) ([]time.Time, error) {
	start = types.TruncateToDay(start)
	end = types.TruncateToDay(end)

	if end.Before(start) {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "end date %s is before start date %s",
			end.Format(DateFormat), start.Format(DateFormat))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates, nil
}

// ParseDate parses a YYYYMMDD string into a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidDateRange, err, "invalid date %q, expected YYYYMMDD", value)
	}

	return date, nil
}
