package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Folha is a stored payroll entry. A record is considered a duplicate when
// either MatriculaNumero or MatriculaCpf already exists; registration numbers
// are occasionally reused, so the union guards against partial identity reuse.
type Folha struct {
	ID                   uint            `gorm:"primaryKey"`
	UnidadeGestoraCodigo string          `gorm:"size:255"`
	UnidadeGestoraNome   string          `gorm:"size:255"`
	MatriculaNumero      string          `gorm:"index;size:255;not null"`
	MatriculaCpf         string          `gorm:"index;size:255;not null"`
	MatriculaNome        string          `gorm:"size:255"`
	DataAdmissao         *time.Time
	TipoContratacao      *string         `gorm:"size:255"`
	Vinculo              string          `gorm:"size:255"`
	LocalNome            string          `gorm:"size:255"`
	CargoCodigo          string          `gorm:"size:255"`
	CargoNome            string          `gorm:"size:255"`
	NrHorasSemanais      int             `gorm:"not null;default:0"`
	EstruturaClasse      *string         `gorm:"size:255"`
	EstruturaNivel       *string         `gorm:"size:255"`
	SalarioBase          decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	TotalVantagens       decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	TotalDescontos       decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	CreatedAt            time.Time       `gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime"`
}

// TableName keeps the table name aligned with the pre-existing schema.
func (Folha) TableName() string {
	return "folhas"
}
