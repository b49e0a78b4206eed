package provider

import (
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
)

// Granularity is a bar granularity label in Binance interval notation.
type Granularity string

const (
	GranularityOneMinute      Granularity = "1m"
	GranularityThreeMinutes   Granularity = "3m"
	GranularityFiveMinutes    Granularity = "5m"
	GranularityFifteenMinutes Granularity = "15m"
	GranularityThirtyMinutes  Granularity = "30m"
	GranularityOneHour        Granularity = "1h"
	GranularityTwoHours       Granularity = "2h"
	GranularityFourHours      Granularity = "4h"
	GranularitySixHours       Granularity = "6h"
	GranularityEightHours     Granularity = "8h"
	GranularityTwelveHours    Granularity = "12h"
	GranularityOneDay         Granularity = "1d"
	GranularityThreeDays      Granularity = "3d"
	GranularityOneWeek        Granularity = "1w"
	GranularityOneMonth       Granularity = "1M"
)

var granularityDurations = map[Granularity]time.Duration{
	GranularityOneMinute:      time.Minute,
	GranularityThreeMinutes:   3 * time.Minute,
	GranularityFiveMinutes:    5 * time.Minute,
	GranularityFifteenMinutes: 15 * time.Minute,
	GranularityThirtyMinutes:  30 * time.Minute,
	GranularityOneHour:        time.Hour,
	GranularityTwoHours:       2 * time.Hour,
	GranularityFourHours:      4 * time.Hour,
	GranularitySixHours:       6 * time.Hour,
	GranularityEightHours:     8 * time.Hour,
	GranularityTwelveHours:    12 * time.Hour,
	GranularityOneDay:         24 * time.Hour,
	GranularityThreeDays:      72 * time.Hour,
	GranularityOneWeek:        7 * 24 * time.Hour,
	GranularityOneMonth:       30 * 24 * time.Hour,
}

// ParseGranularity validates a label. Empty means daily.
func ParseGranularity(label string) (Granularity, error) {
	if label == "" {
		return GranularityOneDay, nil
	}

	granularity := Granularity(label)
	if _, ok := granularityDurations[granularity]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidGranularity, "unsupported granularity %q", label)
	}

	return granularity, nil
}

// BinanceInterval returns the kline interval string.
func (g Granularity) BinanceInterval() string {
	return string(g)
}

// Duration is the nominal length of one bar. Months count as 30 days.
func (g Granularity) Duration() time.Duration {
	return granularityDurations[g]
}

// Multiplier is the Polygon aggregate multiplier.
func (g Granularity) Multiplier() int {
	switch g {
	case GranularityThreeMinutes, GranularityThreeDays:
		return 3
	case GranularityFiveMinutes:
		return 5
	case GranularityFifteenMinutes:
		return 15
	case GranularityThirtyMinutes:
		return 30
	case GranularityTwoHours:
		return 2
	case GranularityFourHours:
		return 4
	case GranularitySixHours:
		return 6
	case GranularityEightHours:
		return 8
	case GranularityTwelveHours:
		return 12
	default:
		return 1
	}
}

// Timespan is the Polygon aggregate timespan.
func (g Granularity) Timespan() models.Timespan {
	switch g {
	case GranularityOneMinute, GranularityThreeMinutes, GranularityFiveMinutes, GranularityFifteenMinutes, GranularityThirtyMinutes:
		return models.Minute
	case GranularityOneHour, GranularityTwoHours, GranularityFourHours, GranularitySixHours, GranularityEightHours, GranularityTwelveHours:
		return models.Hour
	case GranularityOneWeek:
		return models.Week
	case GranularityOneMonth:
		return models.Month
	default:
		return models.Day
	}
}
