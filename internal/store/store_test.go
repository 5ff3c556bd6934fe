package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vmalves/transparencia-sync/internal/epublica"
	"vmalves/transparencia-sync/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Despesa{}, &models.Folha{}))
	return New(db, nil)
}

func despesaFixture() *epublica.DespesaRegistro {
	return &epublica.DespesaRegistro{
		Empenho: &epublica.Empenho{
			Numero:         "45",
			Emissao:        "2024-05-10",
			Especie:        "Empenho Original",
			ObjetoResumido: "Locação de imóvel comercial",
		},
		ListMovimentos: []epublica.Movimento{
			{ValorMovimento: decimal.RequireFromString("10.50")},
			{ValorMovimento: decimal.RequireFromString("5.00")},
			{ValorMovimento: decimal.RequireFromString("-2.00")},
		},
		ClassificacaoCompleta: &epublica.ClassificacaoCompleta{ClassificacaoCompleta: "02.001.04.122.0002.2004"},
		Despesa: &epublica.ClassificacaoFuncional{
			Funcao:    &epublica.Denominacao{Denominacao: "Administração"},
			Subfuncao: &epublica.Denominacao{Denominacao: "Administração Geral"},
			Programa:  &epublica.Denominacao{Denominacao: "Gestão Administrativa"},
			Acao:      &epublica.Denominacao{Denominacao: "Manutenção das Atividades"},
		},
		NaturezaDespesa: &epublica.NaturezaDespesa{
			CategoriaEconomica: &epublica.Denominacao{Denominacao: "Despesas Correntes"},
			Grupo:              &epublica.Denominacao{Denominacao: "Outras Despesas Correntes"},
			Detalhamento:       &epublica.Denominacao{Denominacao: "Locação de imóveis"},
		},
		FonteRecurso:        &epublica.Denominacao{Denominacao: "Recursos Próprios"},
		Exercicio:           &epublica.Exercicio{Exercicio: "2024"},
		UnidadeOrcamentaria: &epublica.UnidadeOrcamentaria{Denominacao: "Secretaria de Administração", UnidadeGestora: &epublica.Denominacao{Denominacao: "Prefeitura"}},
		Fornecedor:          &epublica.Fornecedor{Pessoa: &epublica.Pessoa{Nome: "Imobiliária LTDA", CpfCnpj: "123"}},
	}
}

func TestSaveDespesaMapsNestedShape(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDespesa(ctx, despesaFixture(), 2))

	var stored models.Despesa
	require.NoError(t, s.db.First(&stored).Error)

	assert.Equal(t, 2, stored.CodigoUnidade)
	assert.Equal(t, 45, stored.Numero)
	assert.Equal(t, "2024-05-10", stored.Emissao)
	assert.Equal(t, "Administração", stored.Funcao)
	assert.Equal(t, "Locação de imóveis", stored.Detalhamento)
	assert.Equal(t, 2024, stored.Exercicio)
	assert.Equal(t, "Prefeitura", stored.UnidadeGestora)
	assert.Equal(t, "Imobiliária LTDA", stored.Fornecedor)
	assert.Equal(t, "123", stored.CpfCnpj)
	assert.True(t, stored.ValorTotal.Equal(decimal.RequireFromString("13.50")),
		"movement total should be 13.50, got %s", stored.ValorTotal)
	assert.Empty(t, stored.Tipo, "new expenses start unclassified")
}

func TestSaveDespesaDefaultsMissingSubObjects(t *testing.T) {
	s := newTestStore(t)
	reg := &epublica.DespesaRegistro{
		Empenho:    &epublica.Empenho{Numero: "7", Emissao: "2024-01-01"},
		Fornecedor: &epublica.Fornecedor{Pessoa: &epublica.Pessoa{Nome: "Fornecedor", CpfCnpj: "999"}},
	}

	require.NoError(t, s.SaveDespesa(context.Background(), reg, 0))

	var stored models.Despesa
	require.NoError(t, s.db.First(&stored).Error)
	assert.Empty(t, stored.Funcao)
	assert.Empty(t, stored.FonteRecurso)
	assert.Zero(t, stored.Exercicio)
	assert.True(t, stored.ValorTotal.IsZero())
}

func TestDespesaExistsMatchesFullNaturalKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDespesa(ctx, despesaFixture(), 2))

	exists, err := s.DespesaExists(ctx, despesaFixture())
	require.NoError(t, err)
	assert.True(t, exists)

	// Changing any one key field flips the result.
	changedCpf := despesaFixture()
	changedCpf.Fornecedor.Pessoa.CpfCnpj = "456"
	exists, err = s.DespesaExists(ctx, changedCpf)
	require.NoError(t, err)
	assert.False(t, exists)

	changedNumero := despesaFixture()
	changedNumero.Empenho.Numero = "46"
	exists, err = s.DespesaExists(ctx, changedNumero)
	require.NoError(t, err)
	assert.False(t, exists)

	changedEmissao := despesaFixture()
	changedEmissao.Empenho.Emissao = "2024-05-11"
	exists, err = s.DespesaExists(ctx, changedEmissao)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDespesaExistsWithoutSupplierIdentity(t *testing.T) {
	s := newTestStore(t)
	reg := despesaFixture()
	reg.Fornecedor.Pessoa = nil

	// No identity, no safe comparison: report false instead of erroring.
	exists, err := s.DespesaExists(context.Background(), reg)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnclassifiedDespesasAndSetTipo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDespesa(ctx, despesaFixture(), 0))

	unclassified, err := s.UnclassifiedDespesas(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unclassified, 1)

	require.NoError(t, s.SetDespesaTipo(ctx, unclassified[0].ID, "Locação de Imóveis"))

	// A second pass must not overwrite the assigned category.
	require.NoError(t, s.SetDespesaTipo(ctx, unclassified[0].ID, "Outra Categoria"))

	var stored models.Despesa
	require.NoError(t, s.db.First(&stored, unclassified[0].ID).Error)
	assert.Equal(t, "Locação de Imóveis", stored.Tipo)

	unclassified, err = s.UnclassifiedDespesas(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unclassified)
}

func folhaFixture() *epublica.FolhaRegistro {
	dataAdmissao := "2020-03-01"
	tipoContratacao := "Efetivo"
	classe := "A"
	return &epublica.FolhaRegistro{
		UnidadeGestora: &epublica.UnidadeGestora{Codigo: "2", Denominacao: "Prefeitura"},
		Matricula: &epublica.Matricula{
			Numero:          "9001",
			Cpf:             "11122233344",
			Nome:            "Maria Silva",
			DataAdmissao:    &dataAdmissao,
			TipoContratacao: &tipoContratacao,
		},
		ListFolha: []epublica.Folha{
			{
				Historico: epublica.Historico{
					Vinculo:         "Efetivo",
					NrHorasSemanais: 40,
					Cargo:           &epublica.Cargo{Codigo: "10", Denominacao: "Professor"},
					Local:           &epublica.Denominacao{Denominacao: "Escola Municipal"},
					EstruturaSalarial: &epublica.EstruturaSalarial{
						CodigoClasse: &classe,
					},
				},
				ListEventos: []epublica.Evento{
					{Denominacao: "002 SALARIO BASE", TipoEventoDenominacao: "Vantagem", ValorEvento: decimal.RequireFromString("2500.00")},
					{Denominacao: "GRATIFICACAO", TipoEventoDenominacao: "Vantagem", ValorEvento: decimal.RequireFromString("300.00")},
					{Denominacao: "INSS", TipoEventoDenominacao: "Desconto", ValorEvento: decimal.RequireFromString("275.00")},
					{Denominacao: "INFORMATIVO", TipoEventoDenominacao: "Outro", ValorEvento: decimal.RequireFromString("99.00")},
				},
			},
		},
	}
}

func TestSaveFolha(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveFolha(context.Background(), folhaFixture()))

	var stored models.Folha
	require.NoError(t, s.db.First(&stored).Error)

	assert.Equal(t, "2", stored.UnidadeGestoraCodigo)
	assert.Equal(t, "9001", stored.MatriculaNumero)
	assert.Equal(t, "11122233344", stored.MatriculaCpf)
	require.NotNil(t, stored.DataAdmissao)
	assert.Equal(t, "Professor", stored.CargoNome)
	assert.Equal(t, 40, stored.NrHorasSemanais)
	require.NotNil(t, stored.EstruturaClasse)
	assert.Equal(t, "A", *stored.EstruturaClasse)
	assert.Nil(t, stored.EstruturaNivel)
	assert.True(t, stored.SalarioBase.Equal(decimal.RequireFromString("2500.00")))
	assert.True(t, stored.TotalVantagens.Equal(decimal.RequireFromString("2800.00")),
		"advantages should sum both Vantagem events, got %s", stored.TotalVantagens)
	assert.True(t, stored.TotalDescontos.Equal(decimal.RequireFromString("275.00")))
}

func TestSaveFolhaWithoutPayslip(t *testing.T) {
	s := newTestStore(t)
	reg := folhaFixture()
	reg.ListFolha = nil

	err := s.SaveFolha(context.Background(), reg)
	require.ErrorIs(t, err, ErrMissingPayslip)

	var count int64
	require.NoError(t, s.db.Model(&models.Folha{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveFolhaWithoutBaseSalaryEvent(t *testing.T) {
	s := newTestStore(t)
	reg := folhaFixture()
	reg.ListFolha[0].ListEventos = reg.ListFolha[0].ListEventos[1:]

	require.NoError(t, s.SaveFolha(context.Background(), reg))

	var stored models.Folha
	require.NoError(t, s.db.First(&stored).Error)
	assert.True(t, stored.SalarioBase.IsZero())
}

func TestFolhaExistsMatchesEitherKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveFolha(ctx, folhaFixture()))

	// Same registration, different tax id.
	exists, err := s.FolhaExists(ctx, "9001", "00000000000")
	require.NoError(t, err)
	assert.True(t, exists)

	// Different registration, same tax id.
	exists, err = s.FolhaExists(ctx, "9999", "11122233344")
	require.NoError(t, err)
	assert.True(t, exists)

	// Neither matches.
	exists, err = s.FolhaExists(ctx, "9999", "00000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}
