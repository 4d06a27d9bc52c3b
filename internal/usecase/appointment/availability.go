package appointment

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
)

type GetAvailability struct {
	store scheduling.Store
	log   *zap.Logger
}

func NewGetAvailability(store scheduling.Store, log *zap.Logger) *GetAvailability {
	return &GetAvailability{store: store, log: log}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in scheduling.AvailabilityInput,
) ([]scheduling.TimeSlot, error) {

	company, err := uc.store.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("company_not_found")
		}
		return nil, internalError(uc.log, "failed to load company", err,
			zap.Uint("company_id", in.CompanyID))
	}

	staff, err := uc.store.GetStaff(ctx, in.CompanyID, in.StaffID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
		return nil, internalError(uc.log, "failed to load staff", err,
			zap.Uint("staff_id", in.StaffID))
	}

	service, err := uc.store.GetService(ctx, in.CompanyID, in.ServiceID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, internalError(uc.log, "failed to load service", err,
			zap.Uint("service_id", in.ServiceID))
	}

	// Expediente do profissional quando definido, senão o da empresa
	weekdays := staff.WorkingWeekdays
	if weekdays == "" {
		weekdays = company.WorkingWeekdays
	}
	if !worksOnWeekday(weekdays, int(in.Date.Weekday())) {
		return []scheduling.TimeSlot{}, nil
	}

	openHM, closeHM := staff.StartTime, staff.EndTime
	if openHM == "" || closeHM == "" {
		openHM, closeHM = company.OpeningTime, company.ClosingTime
	}
	if openHM == "" || closeHM == "" {
		return []scheduling.TimeSlot{}, nil
	}

	loc := in.Date.Location()

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			in.Date.Year(), in.Date.Month(), in.Date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	dayStart := parseHM(openHM)
	dayEnd := parseHM(closeHM)

	existing, err := uc.store.ListAppointments(ctx, in.CompanyID, scheduling.Filter{
		StaffID: &in.StaffID,
		From:    &dayStart,
		To:      &dayEnd,
	})
	if err != nil {
		return nil, internalError(uc.log, "failed to list appointments", err,
			zap.Uint("staff_id", in.StaffID))
	}

	slotDuration := time.Duration(service.DurationMin) * time.Minute
	if slotDuration <= 0 {
		return []scheduling.TimeSlot{}, nil
	}

	slots := []scheduling.TimeSlot{}

	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {
		slotStart := cur
		slotEnd := cur.Add(slotDuration)

		conflict := false
		for _, ap := range existing {
			if ap.Status == string(scheduling.StatusCancelled) {
				continue
			}
			// Mesmo predicado da reserva: slot que encosta em agendamento
			// existente não é oferecido.
			if scheduling.Overlaps(ap.StartTime, ap.EndTime, slotStart, slotEnd) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, scheduling.TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots, nil
}

func worksOnWeekday(csv string, weekday int) bool {
	if csv == "" {
		return false
	}
	for _, part := range strings.Split(csv, ",") {
		if d, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && d == weekday {
			return true
		}
	}
	return false
}
