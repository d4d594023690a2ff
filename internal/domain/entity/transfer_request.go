package entity

import "time"

// TransferRequest registra la clave de idempotencia de una solicitud de traslado.
// Si el caller reintenta con la misma clave, se devuelve el batch ya creado en
// lugar de descontar stock dos veces.
type TransferRequest struct {
	IdempotencyKey string
	BatchID        string
	CreatedAt      time.Time
}
