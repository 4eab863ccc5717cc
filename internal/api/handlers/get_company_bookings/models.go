package get_company_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
// date задает один день; dateFrom/dateTo - период
func ToServiceRequest(companyID int64, statusStr, dateStr, dateFromStr, dateToStr, includeInactiveStr string) (*models.GetCompanyBookingsRequest, error) {
	req := &models.GetCompanyBookingsRequest{
		CompanyID: companyID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	switch {
	case dateStr != "":
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %v", err)
		}
		req.StartDate = &date
		req.EndDate = &date

	case dateFromStr != "" || dateToStr != "":
		if dateFromStr == "" || dateToStr == "" {
			return nil, fmt.Errorf("dateFrom and dateTo must be used together")
		}
		from, err := time.Parse(domain.DateFormat, dateFromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid dateFrom: %v", err)
		}
		to, err := time.Parse(domain.DateFormat, dateToStr)
		if err != nil {
			return nil, fmt.Errorf("invalid dateTo: %v", err)
		}
		req.StartDate = &from
		req.EndDate = &to
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive: %v", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
