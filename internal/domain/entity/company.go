package entity

import "time"

// Company representa uma empresa/tenant do sistema (multi-tenant).
// Todo produto, movimentação, contrato e foto pertence a exatamente uma Company.
type Company struct {
	ID        int64
	Name      string
	CNPJ      string // opcional, único quando informado
	CreatedAt time.Time
}
