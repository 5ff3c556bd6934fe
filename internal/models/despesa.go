// Package models holds the local relational shapes the sync pipeline writes.
// Schema management lives outside this module; the structs only mirror the
// existing tables.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Despesa is a stored expense commitment. Natural key for deduplication:
// (CpfCnpj, Numero, Emissao). Tipo is the free-text category assigned by the
// categorization pass; the empty string marks an unclassified record.
type Despesa struct {
	ID                  uint            `gorm:"primaryKey" csv:"-"`
	CodigoUnidade       int             `gorm:"not null;default:0" csv:"codigo_unidade"`
	Numero              int             `gorm:"index;not null" csv:"numero"`
	Emissao             string          `gorm:"index;size:255;not null" csv:"emissao"`
	Especie             string          `gorm:"size:255" csv:"especie"`
	Categoria           string          `gorm:"size:255" csv:"categoria"`
	ObjetoResumido      string          `gorm:"type:text" csv:"objeto_resumido"`
	Classificacao       string          `gorm:"size:255" csv:"classificacao"`
	Funcao              string          `gorm:"size:255" csv:"funcao"`
	Subfuncao           string          `gorm:"size:255" csv:"subfuncao"`
	Programa            string          `gorm:"size:255" csv:"programa"`
	Acao                string          `gorm:"size:255" csv:"acao"`
	CategoriaEconomica  string          `gorm:"size:255" csv:"categoria_economica"`
	Grupo               string          `gorm:"size:255" csv:"grupo"`
	ModalidadeAplicacao string          `gorm:"size:255" csv:"modalidade_aplicacao"`
	Elemento            string          `gorm:"size:255" csv:"elemento"`
	Detalhamento        string          `gorm:"type:text" csv:"detalhamento"`
	FonteRecurso        string          `gorm:"size:255" csv:"fonte_recurso"`
	Exercicio           int             `gorm:"not null;default:0" csv:"exercicio"`
	UnidadeOrcamentaria string          `gorm:"size:255" csv:"unidade_orcamentaria"`
	UnidadeGestora      string          `gorm:"size:255" csv:"unidade_gestora"`
	Fornecedor          string          `gorm:"size:255" csv:"fornecedor"`
	CpfCnpj             string          `gorm:"index;size:255;not null" csv:"cpf_cnpj"`
	ValorTotal          decimal.Decimal `gorm:"type:decimal(20,2);default:0" csv:"valor_total"`
	Tipo                string          `gorm:"size:255;not null;default:''" csv:"tipo"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" csv:"-"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" csv:"-"`
}

// TableName keeps the table name aligned with the pre-existing schema.
func (Despesa) TableName() string {
	return "despesas"
}
