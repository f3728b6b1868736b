package models

// ServiceSelectionRequest выбранная услуга каталога
type ServiceSelectionRequest struct {
	ServiceID  int64   `json:"serviceId"`
	InputValue *string `json:"inputValue,omitempty"` // Значение, введённое мастером (длина шерсти и т.п.)
	CareNote   *string `json:"careNote,omitempty"`
}

// AssignServicesRequest запрос на назначение услуг. Повторная отправка заменяет набор целиком.
type AssignServicesRequest struct {
	Services []ServiceSelectionRequest `json:"services"`
}

// CompleteRequest запрос на завершение обслуживания
type CompleteRequest struct {
	PaymentMode *string `json:"paymentMode,omitempty"` // cash / card, только для архива
}

// FeedbackRequest оценка клиента после завершения
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
