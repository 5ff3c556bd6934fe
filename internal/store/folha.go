package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vmalves/transparencia-sync/internal/epublica"
	"vmalves/transparencia-sync/internal/models"
)

// ErrMissingPayslip marks a payroll record that arrived without its listFolha
// sub-object. The record cannot be persisted; siblings in the same batch are
// unaffected.
var ErrMissingPayslip = errors.New("payroll record has no payslip")

const (
	baseSalaryEvent = "002 SALARIO BASE"
	eventAdvantage  = "Vantagem"
	eventDiscount   = "Desconto"
)

// FolhaExists reports whether a payroll record with the given registration
// number OR tax id is already stored. Either match counts: registration
// numbers are occasionally reused for a different person, and the same person
// can reappear under a new registration.
func (s *Store) FolhaExists(ctx context.Context, matriculaNumero, cpf string) (bool, error) {
	var folha models.Folha
	err := s.db.WithContext(ctx).
		Where("matricula_numero = ? OR matricula_cpf = ?", matriculaNumero, cpf).
		First(&folha).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking payroll record %s: %w", matriculaNumero, err)
	}
	return true, nil
}

// SaveFolha maps the remote payroll shape into the flat local row and inserts
// it. Only the first payslip of the record is persisted; its absence is fatal
// for this record.
func (s *Store) SaveFolha(ctx context.Context, reg *epublica.FolhaRegistro) error {
	folha, err := mapFolha(reg)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(folha).Error; err != nil {
		return fmt.Errorf("saving payroll record %s: %w", folha.MatriculaNumero, err)
	}
	return nil
}

func mapFolha(reg *epublica.FolhaRegistro) (*models.Folha, error) {
	if len(reg.ListFolha) == 0 {
		return nil, ErrMissingPayslip
	}
	payslip := reg.ListFolha[0]

	folha := &models.Folha{
		SalarioBase:    baseSalary(payslip.ListEventos),
		TotalVantagens: sumEvents(payslip.ListEventos, eventAdvantage),
		TotalDescontos: sumEvents(payslip.ListEventos, eventDiscount),
	}

	if reg.UnidadeGestora != nil {
		folha.UnidadeGestoraCodigo = reg.UnidadeGestora.Codigo.String()
		folha.UnidadeGestoraNome = reg.UnidadeGestora.Denominacao
	}
	if reg.Matricula != nil {
		folha.MatriculaNumero = reg.Matricula.Numero
		folha.MatriculaCpf = reg.Matricula.Cpf
		folha.MatriculaNome = reg.Matricula.Nome
		folha.DataAdmissao = parseDate(reg.Matricula.DataAdmissao)
		folha.TipoContratacao = reg.Matricula.TipoContratacao
	}

	historico := payslip.Historico
	folha.Vinculo = historico.Vinculo
	folha.NrHorasSemanais = historico.NrHorasSemanais
	if historico.Cargo != nil {
		folha.CargoCodigo = historico.Cargo.Codigo.String()
		folha.CargoNome = historico.Cargo.Denominacao
	}
	if historico.Local != nil {
		folha.LocalNome = historico.Local.Denominacao
	}
	if historico.EstruturaSalarial != nil {
		folha.EstruturaClasse = historico.EstruturaSalarial.CodigoClasse
		folha.EstruturaNivel = historico.EstruturaSalarial.CodigoNivel
	}

	return folha, nil
}

// baseSalary extracts the base salary by exact event label, defaulting to
// zero when the event is absent.
func baseSalary(eventos []epublica.Evento) decimal.Decimal {
	for _, evento := range eventos {
		if evento.Denominacao == baseSalaryEvent {
			return evento.ValorEvento
		}
	}
	return decimal.Zero
}

func sumEvents(eventos []epublica.Evento, tipo string) decimal.Decimal {
	total := decimal.Zero
	for _, evento := range eventos {
		if evento.TipoEventoDenominacao == tipo {
			total = total.Add(evento.ValorEvento)
		}
	}
	return total
}

// parseDate accepts the admission date as either a bare date or a full
// timestamp. Anything else maps to null rather than failing the record.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}
