package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// generateDaySlots генерирует слоты одного рабочего дня компании
// Слоты идут с фиксированным шагом slotDuration от открытия; слот попадает
// в список, только если целиком помещается до закрытия
// Занятость определяется множеством занятых времен; если день исчерпал лимит
// бронирований, все слоты недоступны
func generateDaySlots(
	company *domain.Company,
	reserved map[types.TimeString]bool,
	dayFull bool,
) ([]domain.Slot, error) {
	duration := company.SlotDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSlotDurationMinutes
	}

	slots := make([]domain.Slot, 0)
	current := company.HoursStart

	for {
		slotEnd, err := current.AddMinutes(duration)
		if err != nil {
			// Слот перелез бы через полночь - день закончился
			break
		}
		if slotEnd.IsAfter(company.HoursEnd) {
			break
		}

		slots = append(slots, domain.Slot{
			StartTime:       current,
			DurationMinutes: duration,
			Display:         fmt.Sprintf("%s - %s", current, slotEnd),
			Available:       !dayFull && !reserved[current],
		})

		current = slotEnd
	}

	return slots, nil
}

// reservedTimesByDate группирует занятые времена по дате (ключ - YYYY-MM-DD)
func reservedTimesByDate(reservations []*domain.Reservation) map[string]map[types.TimeString]bool {
	byDate := make(map[string]map[types.TimeString]bool)
	for _, res := range reservations {
		key := res.Date.Format(domain.DateFormat)
		if byDate[key] == nil {
			byDate[key] = make(map[types.TimeString]bool)
		}
		byDate[key][res.StartTime] = true
	}
	return byDate
}
