package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"vmalves/transparencia-sync/internal/epublica"
	"vmalves/transparencia-sync/internal/models"
)

// DespesaExists reports whether the expense is already stored, matching on
// the supplier tax id, the commitment number and the issue date. A record
// without a supplier person has no identity to compare by and reports false;
// the pipeline skips such records instead of persisting them.
func (s *Store) DespesaExists(ctx context.Context, reg *epublica.DespesaRegistro) (bool, error) {
	if reg.Empenho == nil || reg.Fornecedor == nil || reg.Fornecedor.Pessoa == nil {
		return false, nil
	}

	var despesa models.Despesa
	err := s.db.WithContext(ctx).
		Where("cpf_cnpj = ? AND numero = ? AND emissao = ?",
			reg.Fornecedor.Pessoa.CpfCnpj,
			parseNumero(reg.Empenho.Numero),
			reg.Empenho.Emissao).
		First(&despesa).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking expense %s: %w", reg.Empenho.Numero, err)
	}
	return true, nil
}

// SaveDespesa maps the nested remote shape into the flat local row and
// inserts it. Missing optional sub-objects become zero values rather than
// failing the record; the category starts as the empty (unclassified)
// sentinel and is filled in later by the categorization pass.
func (s *Store) SaveDespesa(ctx context.Context, reg *epublica.DespesaRegistro, codigoUnidade int) error {
	despesa := mapDespesa(reg, codigoUnidade)
	if err := s.db.WithContext(ctx).Create(despesa).Error; err != nil {
		return fmt.Errorf("saving expense %d: %w", despesa.Numero, err)
	}
	return nil
}

func mapDespesa(reg *epublica.DespesaRegistro, codigoUnidade int) *models.Despesa {
	despesa := &models.Despesa{
		CodigoUnidade: codigoUnidade,
		ValorTotal:    reg.TotalMovimentos(),
		Tipo:          "",
	}

	if reg.Empenho != nil {
		despesa.Numero = parseNumero(reg.Empenho.Numero)
		despesa.Emissao = reg.Empenho.Emissao
		despesa.Especie = reg.Empenho.Especie
		despesa.Categoria = reg.Empenho.Categoria
		despesa.ObjetoResumido = reg.Empenho.ObjetoResumido
	}
	if reg.ClassificacaoCompleta != nil {
		despesa.Classificacao = reg.ClassificacaoCompleta.ClassificacaoCompleta
	}
	if reg.Despesa != nil {
		despesa.Funcao = denominacao(reg.Despesa.Funcao)
		despesa.Subfuncao = denominacao(reg.Despesa.Subfuncao)
		despesa.Programa = denominacao(reg.Despesa.Programa)
		despesa.Acao = denominacao(reg.Despesa.Acao)
	}
	if reg.NaturezaDespesa != nil {
		despesa.CategoriaEconomica = denominacao(reg.NaturezaDespesa.CategoriaEconomica)
		despesa.Grupo = denominacao(reg.NaturezaDespesa.Grupo)
		despesa.ModalidadeAplicacao = denominacao(reg.NaturezaDespesa.ModalidadeAplicacao)
		despesa.Elemento = denominacao(reg.NaturezaDespesa.Elemento)
		despesa.Detalhamento = denominacao(reg.NaturezaDespesa.Detalhamento)
	}
	if reg.FonteRecurso != nil {
		despesa.FonteRecurso = reg.FonteRecurso.Denominacao
	}
	if reg.Exercicio != nil {
		despesa.Exercicio = parseNumero(reg.Exercicio.Exercicio)
	}
	if reg.UnidadeOrcamentaria != nil {
		despesa.UnidadeOrcamentaria = reg.UnidadeOrcamentaria.Denominacao
		despesa.UnidadeGestora = denominacao(reg.UnidadeOrcamentaria.UnidadeGestora)
	}
	if reg.Fornecedor != nil && reg.Fornecedor.Pessoa != nil {
		despesa.Fornecedor = reg.Fornecedor.Pessoa.Nome
		despesa.CpfCnpj = reg.Fornecedor.Pessoa.CpfCnpj
	}

	return despesa
}

func denominacao(d *epublica.Denominacao) string {
	if d == nil {
		return ""
	}
	return d.Denominacao
}

func parseNumero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// UnclassifiedDespesas returns stored expenses still carrying the empty
// category sentinel, up to limit.
func (s *Store) UnclassifiedDespesas(ctx context.Context, limit int) ([]models.Despesa, error) {
	var despesas []models.Despesa
	err := s.db.WithContext(ctx).
		Where("tipo = ?", "").
		Limit(limit).
		Find(&despesas).Error
	if err != nil {
		return nil, fmt.Errorf("listing unclassified expenses: %w", err)
	}
	return despesas, nil
}

// SetDespesaTipo assigns the category. The update is guarded on the empty
// sentinel so an already classified record is never overwritten.
func (s *Store) SetDespesaTipo(ctx context.Context, id uint, tipo string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Despesa{}).
		Where("id = ? AND tipo = ?", id, "").
		Update("tipo", tipo).Error
	if err != nil {
		return fmt.Errorf("updating category of expense %d: %w", id, err)
	}
	return nil
}

// ListDespesas returns all stored expenses, oldest first. Used by the CSV
// export surface.
func (s *Store) ListDespesas(ctx context.Context) ([]models.Despesa, error) {
	var despesas []models.Despesa
	if err := s.db.WithContext(ctx).Order("id").Find(&despesas).Error; err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return despesas, nil
}
