package fields

// Нормализация ключей форм: разные фронтовые формы присылают одни и те же
// данные под разными именами. Таблица variant -> canonical статическая;
// для каждого канонического поля побеждает первый непустой вариант в порядке
// объявления, остальные варианты отбрасываются. Ключи без маппинга проходят
// в выход без изменений - это сервис-специфичные поля новых форм.

// fieldMapping описывает одно каноническое поле и его известные варианты
type fieldMapping struct {
	canonical string
	variants  []string
}

// Порядок объявления вариантов определяет приоритет
var fieldMappings = []fieldMapping{
	{canonical: "service", variants: []string{"service", "service_type", "serviceType", "service_name"}},
	{canonical: "full_name", variants: []string{"full_name", "customer_name", "name", "fullName", "client_name"}},
	{canonical: "email", variants: []string{"email", "email_address", "customer_email", "emailAddress"}},
	{canonical: "phone", variants: []string{"phone", "phone_number", "tel", "customer_phone", "phoneNumber"}},
	{canonical: "address", variants: []string{"address", "street_address", "customer_address"}},
	{canonical: "zip", variants: []string{"zip", "zip_code", "zipcode", "postal_code"}},
	{canonical: "company", variants: []string{"company", "company_id", "companyId", "provider", "provider_id"}},
	{canonical: "selected_date", variants: []string{"selected_date", "booking_date", "appointment_date", "date"}},
	{canonical: "selected_time", variants: []string{"selected_time", "booking_time", "appointment_time", "time"}},
	{canonical: "utm_source", variants: []string{"utm_source", "utmSource"}},
	{canonical: "utm_medium", variants: []string{"utm_medium", "utmMedium"}},
	{canonical: "utm_campaign", variants: []string{"utm_campaign", "utmCampaign"}},
	{canonical: "utm_term", variants: []string{"utm_term", "utmTerm"}},
	{canonical: "utm_content", variants: []string{"utm_content", "utmContent"}},
	{canonical: "referrer", variants: []string{"referrer", "http_referrer", "referer"}},
}

// Normalize приводит сырые ключи формы к канонической схеме
// Чистая функция без побочных эффектов; пустой вход дает пустой выход
func Normalize(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	if len(raw) == 0 {
		return out
	}

	consumed := make(map[string]bool, len(raw))

	for _, m := range fieldMappings {
		for _, variant := range m.variants {
			value, ok := raw[variant]
			if !ok {
				continue
			}
			consumed[variant] = true
			if value == "" {
				continue
			}
			// Первый непустой вариант побеждает
			if _, exists := out[m.canonical]; !exists {
				out[m.canonical] = value
			}
		}
	}

	// Неизвестные ключи сохраняем как есть
	for key, value := range raw {
		if !consumed[key] {
			out[key] = value
		}
	}

	return out
}

// CanonicalFields возвращает список канонических имен полей
func CanonicalFields() []string {
	names := make([]string, 0, len(fieldMappings))
	for _, m := range fieldMappings {
		names = append(names, m.canonical)
	}
	return names
}
