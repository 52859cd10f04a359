package entity

import "time"

// Clases de movimiento registradas en el ledger.
const (
	MovementManualIn   = "MANUAL_IN"   // entrada manual
	MovementManualOut  = "MANUAL_OUT"  // salida manual
	MovementRequest    = "REQUEST"     // entrega o devolución de solicitud
	MovementPOReceipt  = "PO_RECEIPT"  // recepción de orden de compra o acta de entrada
	MovementAdjustment = "ADJUSTMENT"  // ajuste manual
)

// LedgerEntry es un registro inmutable de un cambio de existencias: se crea una
// sola vez y nunca se actualiza ni se borra. Delta va con signo: positivo entrada,
// negativo salida. Ante un clamp a cero se registra el delta solicitado, no el aplicado.
type LedgerEntry struct {
	ID        string
	ItemID    string
	Delta     int64
	Kind      string
	ActorID   string
	Reference string // número de orden, acta o solicitud que originó el movimiento
	Note      string
	CreatedAt time.Time
}

// ValidMovementKind indica si k es una clase de movimiento conocida.
func ValidMovementKind(k string) bool {
	switch k {
	case MovementManualIn, MovementManualOut, MovementRequest, MovementPOReceipt, MovementAdjustment:
		return true
	}
	return false
}
