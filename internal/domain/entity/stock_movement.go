package entity

import "time"

// Estados del ciclo de vida de un movimiento. El historial es append-only:
// un rechazo no muta el registro original sino que genera un movimiento nuevo
// en estado `returned` en la dirección inversa.
const (
	MovementStatusSent     = "sent"     // en tránsito
	MovementStatusReceived = "received" // terminal
	MovementStatusRejected = "rejected" // terminal, genera un `returned`
	MovementStatusReturned = "returned" // registro de devolución
)

// StockMovement representa el traslado de un producto/cantidad entre dos ubicaciones.
// BatchID agrupa los renglones enviados juntos en una misma solicitud.
type StockMovement struct {
	ID                 string
	BatchID            string
	ProductID          string
	Quantity           int64
	SourceLocationID   string
	DestLocationID     string
	Status             string
	CreatedAt          time.Time
	ExpectedDeliveryAt time.Time
	ActualDeliveryAt   *time.Time
	Notes              string
	EvidenceRef        *string
	CreatedBy          string
}

// CanTransition valida la máquina de estados: sent→received y sent→rejected.
// Ningún estado vuelve a sent; received, rejected y returned son terminales.
func CanTransition(from, to string) bool {
	if from != MovementStatusSent {
		return false
	}
	return to == MovementStatusReceived || to == MovementStatusRejected
}

// Pending indica si el movimiento sigue en tránsito (confirmable o rechazable).
func (m *StockMovement) Pending() bool {
	return m.Status == MovementStatusSent
}
