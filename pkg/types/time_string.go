package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

const (
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
	secondsPerDay   = 24 * 60 * 60
)

// TimeString время суток в формате "HH:MM:SS" без привязки к дате.
// Используется для start_time шаблонов (колонка TIME в PostgreSQL).
type TimeString string

// NewTimeString создает TimeString из time.Time (дата и зона отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит "HH:MM" или "HH:MM:SS" и нормализует к "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	for _, layout := range []string{timeLayout, shortTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeString(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// MustTimeString как NewTimeStringFromString, но паникует на ошибке (для констант и тестов)
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Seconds возвращает количество секунд от начала суток
func (t TimeString) Seconds() int {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0
	}
	return parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second()
}

// AddMinutes прибавляет минуты; выход за пределы суток - ошибка
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.Seconds() + minutes*60
	if total < 0 || total >= secondsPerDay {
		return "", fmt.Errorf("%w: %s%+d min is out of day range", ErrInvalidTimeString, t, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Seconds() < other.Seconds()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Seconds() > other.Seconds()
}

// String возвращает "HH:MM:SS"
func (t TimeString) String() string {
	return string(t)
}

// Short возвращает "HH:MM" для отображения
func (t TimeString) Short() string {
	if len(t) >= 5 {
		return string(t[:5])
	}
	return string(t)
}

// OnDate возвращает момент времени t в указанный день
func (t TimeString) OnDate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t.Seconds()) * time.Second)
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner; lib/pq отдает TIME как []byte "10:00:00"
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// TIME может прийти с долями секунды: "10:00:00.000000"
	if len(s) > len(timeLayout) {
		s = s[:len(timeLayout)]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
