package create_booking

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	SubSlotID     int64                // ID выбранного под-слота
	LocationID    int64                // ID точки
	Date          time.Time            // Дата бронирования (без времени)
	CustomerName  string               // Имя клиента
	ContactNumber string               // Телефон клиента
	PetName       string               // Кличка питомца
	PetBreed      string               // Порода питомца
	Notes         *string              // Дополнительные заметки (опционально)
	Source        domain.BookingSource // customer - запись с публичной формы, staff - администратор точки
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking      *domain.Booking  // Созданное бронирование (status = reserved)
	TemplateID   int64            // ID шаблона под-слота
	StartTime    types.TimeString // Время начала
	SubSlotLabel string           // Подпись под-слота
}
