package handlers

import (
	"time"

	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/timezone"
)

// ------------------------------------------------------
// Timezone centralizado por empresa
// ------------------------------------------------------

func locationFromCompany(company *models.Company) *time.Location {
	if company != nil {
		return timezone.Location(company.Timezone)
	}
	return timezone.Location("")
}

func parseDateInCompany(company *models.Company, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromCompany(company),
	)
}

// parseTimestampInCompany aceita RFC3339 completo ou data-hora local sem
// offset, interpretada no fuso da empresa.
func parseTimestampInCompany(company *models.Company, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(
		"2006-01-02T15:04",
		value,
		locationFromCompany(company),
	)
}
