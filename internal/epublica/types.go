package epublica

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// The API wraps every result set in {"registros":[{"registro":{...}}]}.
// Nested sub-objects are frequently absent, so every one of them is a
// pointer; callers decide per field whether absence is a default or a skip.

type despesaEnvelope struct {
	Registros []struct {
		Registro *DespesaRegistro `json:"registro"`
	} `json:"registros"`
}

type folhaEnvelope struct {
	Registros []struct {
		Registro *FolhaRegistro `json:"registro"`
	} `json:"registros"`
}

// DespesaRegistro is one expense commitment as returned by the despesa endpoint.
type DespesaRegistro struct {
	Empenho               *Empenho               `json:"empenho"`
	ListMovimentos        []Movimento            `json:"listMovimentos"`
	ClassificacaoCompleta *ClassificacaoCompleta `json:"classificacaoCompleta"`
	Despesa               *ClassificacaoFuncional `json:"despesa"`
	NaturezaDespesa       *NaturezaDespesa       `json:"naturezaDespesa"`
	FonteRecurso          *Denominacao           `json:"fonteRecurso"`
	Exercicio             *Exercicio             `json:"exercicio"`
	UnidadeOrcamentaria   *UnidadeOrcamentaria   `json:"unidadeOrcamentaria"`
	Fornecedor            *Fornecedor            `json:"fornecedor"`
}

// Empenho identifies the commitment itself: number plus issue date.
type Empenho struct {
	Numero         string `json:"numero"`
	Emissao        string `json:"emissao"`
	Especie        string `json:"especie"`
	Categoria      string `json:"categoria"`
	ObjetoResumido string `json:"objetoResumido"`
}

// Movimento is a financial movement against a commitment. Movements are not
// persisted individually, only summed into the expense total.
type Movimento struct {
	DataMovimento  string          `json:"dataMovimento"`
	TipoMovimento  string          `json:"tipoMovimento"`
	ValorMovimento decimal.Decimal `json:"valorMovimento"`
}

// TotalMovimentos sums the movement amounts of the record.
func (r *DespesaRegistro) TotalMovimentos() decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.ListMovimentos {
		total = total.Add(m.ValorMovimento)
	}
	return total
}

// Denominacao wraps the API's ubiquitous {"denominacao": "..."} objects.
type Denominacao struct {
	Denominacao string `json:"denominacao"`
}

type ClassificacaoCompleta struct {
	ClassificacaoCompleta string `json:"classificacaoCompleta"`
}

// ClassificacaoFuncional is the budget classification hierarchy.
type ClassificacaoFuncional struct {
	Funcao    *Denominacao `json:"funcao"`
	Subfuncao *Denominacao `json:"subfuncao"`
	Programa  *Denominacao `json:"programa"`
	Acao      *Denominacao `json:"acao"`
}

// NaturezaDespesa is the economic nature hierarchy.
type NaturezaDespesa struct {
	CategoriaEconomica  *Denominacao `json:"categoriaEconomica"`
	Grupo               *Denominacao `json:"grupo"`
	ModalidadeAplicacao *Denominacao `json:"modalidadeAplicacao"`
	Elemento            *Denominacao `json:"elemento"`
	Detalhamento        *Denominacao `json:"detalhamento"`
}

type Exercicio struct {
	Exercicio string `json:"exercicio"`
}

type UnidadeOrcamentaria struct {
	Denominacao    string       `json:"denominacao"`
	UnidadeGestora *Denominacao `json:"unidadeGestora"`
}

type Fornecedor struct {
	Pessoa *Pessoa `json:"pessoa"`
}

// Pessoa carries the supplier identity. Records without it cannot be compared
// against the store and are skipped by the pipeline.
type Pessoa struct {
	Nome    string `json:"nome"`
	CpfCnpj string `json:"cpfCnpj"`
}

// FolhaRegistro is one payroll entry as returned by the pessoal endpoint.
type FolhaRegistro struct {
	UnidadeGestora *UnidadeGestora `json:"unidadeGestora"`
	Matricula      *Matricula      `json:"matricula"`
	ListFolha      []Folha         `json:"listFolha"`
}

type UnidadeGestora struct {
	Codigo      json.Number `json:"codigo"`
	Denominacao string      `json:"denominacao"`
}

type Matricula struct {
	Numero          string  `json:"numero"`
	Cpf             string  `json:"cpf"`
	Nome            string  `json:"nome"`
	DataAdmissao    *string `json:"dataAdmissao"`
	TipoContratacao *string `json:"tipoContratacao"`
}

// Folha is one payslip. Only the first one of a record is persisted.
type Folha struct {
	Historico   Historico `json:"historico"`
	ListEventos []Evento  `json:"listEventos"`
}

type Historico struct {
	Vinculo           string             `json:"vinculo"`
	NrHorasSemanais   int                `json:"nrHorasSemanais"`
	Cargo             *Cargo             `json:"cargo"`
	Local             *Denominacao       `json:"local"`
	EstruturaSalarial *EstruturaSalarial `json:"estruturaSalarial"`
}

type Cargo struct {
	Codigo      json.Number `json:"codigo"`
	Denominacao string      `json:"denominacao"`
}

type EstruturaSalarial struct {
	CodigoClasse *string `json:"codigoClasse"`
	CodigoNivel  *string `json:"codigoNivel"`
}

// Evento is a single payslip event (salary component, advantage or discount).
type Evento struct {
	Denominacao           string          `json:"denominacao"`
	TipoEventoDenominacao string          `json:"tipoEventoDenominacao"`
	ValorEvento           decimal.Decimal `json:"valorEvento"`
}
