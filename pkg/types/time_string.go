package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeString время в формате "HH:MM"
// Используется для времени начала слотов и рабочих часов компаний.
// Вся арифметика выполняется в целых минутах от начала суток,
// чтобы исключить дрейф при генерации слотов.
type TimeString string

var (
	// ErrInvalidTimeFormat возвращается при некорректном формате времени
	ErrInvalidTimeFormat = errors.New("types: invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда результат арифметики выходит за пределы суток
	ErrTimeOutOfRange = errors.New("types: time is out of day range")
)

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString создает TimeString из строки "HH:MM" с валидацией
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от начала суток
// Допускает значение 1440 ("24:00") как границу закрытия
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > 24*60 {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат "HH:MM"
// Граничное значение "24:00" допустимо (используется как время закрытия)
func (t TimeString) Validate() error {
	_, err := t.TotalMinutes()
	return err
}

// TotalMinutes возвращает количество минут от начала суток
func (t TimeString) TotalMinutes() (int, error) {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hours, ok1 := parseTwoDigits(s[0], s[1])
	minutes, ok2 := parseTwoDigits(s[3], s[4])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return hours*60 + minutes, nil
}

// AddMinutes возвращает время, сдвинутое на указанное количество минут вперёд
// Выход за пределы суток считается ошибкой: слоты не пересекают полночь
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.TotalMinutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(total + minutes)
}

// IsBefore возвращает true, если время строго раньше other
// Некорректные значения считаются равными (сравнение не падает)
func (t TimeString) IsBefore(other TimeString) bool {
	a, err1 := t.TotalMinutes()
	b, err2 := other.TotalMinutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если время строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

func parseTwoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
