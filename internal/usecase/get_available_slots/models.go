package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Request модель запроса на получение свободных под-слотов
type Request struct {
	LocationID int64     // ID точки
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со списком свободных под-слотов
type Response struct {
	LocationID int64     // ID точки
	Date       time.Time // Дата, на которую запрашивались слоты
	Slots      []Slot    // Свободные под-слоты: по времени начала, затем по порядковому номеру
}

// Slot свободный под-слот шаблона на дату
type Slot struct {
	TemplateID int64            // ID шаблона
	StartTime  types.TimeString // Время начала (например, "10:00:00")
	SubSlotID  int64            // ID под-слота, который передаётся при бронировании
	Ordinal    int              // Порядковый номер под-слота в шаблоне
	Label      string           // Подпись под-слота ("Slot 1", если не задана)
}
