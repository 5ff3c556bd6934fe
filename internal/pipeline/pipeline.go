// Package pipeline composes fetching, deduplication and persistence into the
// sync runs, plus the batch categorization pass over stored expenses.
//
// Processing is sequential in the order the API returns records. Per-record
// failures are logged with the record's natural-key fragment and do not abort
// the batch; failing to reach the upstream API at all aborts the whole run.
package pipeline

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"vmalves/transparencia-sync/internal/epublica"
	"vmalves/transparencia-sync/internal/models"
	"vmalves/transparencia-sync/internal/store"
)

// Fetcher retrieves raw records from the transparency API.
type Fetcher interface {
	FetchDespesas(ctx context.Context, periodoInicial, periodoFinal string, codigoUnidade int) ([]epublica.DespesaRegistro, error)
	FetchFolha(ctx context.Context, referencia string, codigoUnidade int) ([]epublica.FolhaRegistro, error)
}

// Store is the persistence boundary the pipeline writes through.
type Store interface {
	DespesaExists(ctx context.Context, reg *epublica.DespesaRegistro) (bool, error)
	SaveDespesa(ctx context.Context, reg *epublica.DespesaRegistro, codigoUnidade int) error
	FolhaExists(ctx context.Context, matriculaNumero, cpf string) (bool, error)
	SaveFolha(ctx context.Context, reg *epublica.FolhaRegistro) error
	UnclassifiedDespesas(ctx context.Context, limit int) ([]models.Despesa, error)
	SetDespesaTipo(ctx context.Context, id uint, tipo string) error
}

// Resolver assigns a category to an expense from its two text fields.
type Resolver interface {
	Categorize(ctx context.Context, objetoResumido, detalhamento string) (string, error)
}

// Summary reports what a run did. It travels back to the command boundary,
// where the exit-code mapping happens exactly once.
type Summary struct {
	Fetched     int
	Inserted    int
	Skipped     int
	Failed      int
	Categorized int
}

// Pipeline wires the collaborators together. The resolver is only needed by
// the categorization pass and may be nil for the sync runs.
type Pipeline struct {
	fetcher  Fetcher
	store    Store
	resolver Resolver
	log      logrus.FieldLogger
}

// New creates a Pipeline.
func New(fetcher Fetcher, st Store, resolver Resolver, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		fetcher:  fetcher,
		store:    st,
		resolver: resolver,
		log:      log,
	}
}

// SyncDespesas copies the expense commitments of the period into the local
// store, skipping records that already exist under their natural key.
func (p *Pipeline) SyncDespesas(ctx context.Context, periodoInicial, periodoFinal string, codigoUnidade int) (Summary, error) {
	p.log.WithFields(logrus.Fields{
		"periodo_inicial": periodoInicial,
		"periodo_final":   periodoFinal,
		"codigo_unidade":  codigoUnidade,
	}).Info("Starting expense sync")

	registros, err := p.fetcher.FetchDespesas(ctx, periodoInicial, periodoFinal, codigoUnidade)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Fetched: len(registros)}
	for i := range registros {
		reg := &registros[i]

		if reg.Empenho == nil {
			summary.Skipped++
			p.log.Debug("Skipping record without commitment sub-object")
			continue
		}
		recordLog := p.log.WithField("numero", reg.Empenho.Numero)

		if reg.Fornecedor == nil || reg.Fornecedor.Pessoa == nil {
			// Without the supplier identity there is nothing to compare
			// against the store, so the record cannot be safely persisted.
			summary.Skipped++
			recordLog.Warn("Skipping expense without supplier identity")
			continue
		}

		exists, err := p.store.DespesaExists(ctx, reg)
		if err != nil {
			summary.Failed++
			recordLog.WithError(err).Error("Failed to check expense")
			continue
		}
		if exists {
			summary.Skipped++
			recordLog.Info("Expense already exists")
			continue
		}

		if err := p.store.SaveDespesa(ctx, reg, codigoUnidade); err != nil {
			summary.Failed++
			recordLog.WithError(err).Error("Failed to save expense")
			continue
		}
		summary.Inserted++
		recordLog.Info("Migrated expense")
	}

	p.logSummary("expense sync", summary)
	return summary, nil
}

// SyncFolha copies the payroll entries of the reference period into the local
// store. A record matching an existing registration number or tax id is
// skipped.
func (p *Pipeline) SyncFolha(ctx context.Context, referencia string, codigoUnidade int) (Summary, error) {
	p.log.WithFields(logrus.Fields{
		"referencia":     referencia,
		"codigo_unidade": codigoUnidade,
	}).Info("Starting payroll sync")

	registros, err := p.fetcher.FetchFolha(ctx, referencia, codigoUnidade)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Fetched: len(registros)}
	for i := range registros {
		reg := &registros[i]

		if reg.Matricula == nil {
			summary.Skipped++
			p.log.Debug("Skipping record without registration sub-object")
			continue
		}
		recordLog := p.log.WithField("matricula", reg.Matricula.Numero)

		exists, err := p.store.FolhaExists(ctx, reg.Matricula.Numero, reg.Matricula.Cpf)
		if err != nil {
			summary.Failed++
			recordLog.WithError(err).Error("Failed to check payroll record")
			continue
		}
		if exists {
			summary.Skipped++
			recordLog.Info("Payroll record already exists")
			continue
		}

		if err := p.store.SaveFolha(ctx, reg); err != nil {
			summary.Failed++
			if errors.Is(err, store.ErrMissingPayslip) {
				recordLog.WithError(err).Error("Payroll record has no payslip")
			} else {
				recordLog.WithError(err).Error("Failed to save payroll record")
			}
			continue
		}
		summary.Inserted++
		recordLog.Info("Migrated payroll record")
	}

	p.logSummary("payroll sync", summary)
	return summary, nil
}

// CategorizeDespesas assigns categories to stored expenses that still carry
// the empty sentinel. A classification-service failure aborts the pass: the
// credential or service is down for every remaining record alike.
func (p *Pipeline) CategorizeDespesas(ctx context.Context, limit int) (Summary, error) {
	despesas, err := p.store.UnclassifiedDespesas(ctx, limit)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Fetched: len(despesas)}
	p.log.WithField("count", len(despesas)).Info("Starting categorization pass")

	for _, despesa := range despesas {
		recordLog := p.log.WithField("id", despesa.ID)

		tipo, err := p.resolver.Categorize(ctx, despesa.ObjetoResumido, despesa.Detalhamento)
		if err != nil {
			recordLog.WithError(err).Error("Categorization failed")
			p.logSummary("categorization", summary)
			return summary, err
		}
		if tipo == "" {
			summary.Skipped++
			recordLog.Debug("No category resolved")
			continue
		}

		if err := p.store.SetDespesaTipo(ctx, despesa.ID, tipo); err != nil {
			recordLog.WithError(err).Error("Failed to store category")
			p.logSummary("categorization", summary)
			return summary, err
		}
		summary.Categorized++
		recordLog.WithField("tipo", tipo).Info("Categorized expense")
	}

	p.logSummary("categorization", summary)
	return summary, nil
}

func (p *Pipeline) logSummary(operation string, summary Summary) {
	p.log.WithFields(logrus.Fields{
		"fetched":     summary.Fetched,
		"inserted":    summary.Inserted,
		"skipped":     summary.Skipped,
		"failed":      summary.Failed,
		"categorized": summary.Categorized,
	}).Infof("Finished %s", operation)
}
