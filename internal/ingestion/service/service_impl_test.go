package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/brokerage/internal/clock"
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	companyrepository "github.com/smallbiznis/brokerage/internal/company/repository"
	companyservice "github.com/smallbiznis/brokerage/internal/company/service"
	ingestiondomain "github.com/smallbiznis/brokerage/internal/ingestion/domain"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	masterrepository "github.com/smallbiznis/brokerage/internal/master/repository"
	policydomain "github.com/smallbiznis/brokerage/internal/policy/domain"
	"github.com/smallbiznis/brokerage/internal/ownerctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	node        *snowflake.Node
	clock       *clock.FakeClock
	companysvc  companydomain.Service
	companyrepo companydomain.Repository
	masterrepo  masterdomain.Repository
	svc         ingestiondomain.Service
	ctx         context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&masterdomain.MasterRule{},
		&policydomain.PolicyRecord{},
	))
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS ux_policy_records_natural ON policy_records(company_id, policy_no, original_issue_date)")

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	companyRepo := companyrepository.Provide()
	companySvc := companyservice.NewService(companyservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fc,
		Repo:  companyRepo,
	})
	masterRepo := masterrepository.Provide()

	svc := NewService(ServiceParam{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       fc,
		CompanySvc:  companySvc,
		CompanyRepo: companyRepo,
		MasterRepo:  masterRepo,
	})

	ownerID := node.Generate()
	ctx := ownerctx.WithOwnerID(context.Background(), int64(ownerID))

	return &testEnv{
		db:          db,
		node:        node,
		clock:       fc,
		companysvc:  companySvc,
		companyrepo: companyRepo,
		masterrepo:  masterRepo,
		svc:         svc,
		ctx:         ctx,
	}
}

// seedCompany creates a company with one Term/Gold rule:
// policyTerm 20, ppt 5+, commission 5%, reward 2%, loading 1%.
func (e *testEnv) seedCompany(t *testing.T, name string) *companydomain.Company {
	t.Helper()

	company, err := e.companysvc.ResolveOrCreate(e.ctx, name)
	require.NoError(t, err)

	now := e.clock.Now()
	require.NoError(t, e.masterrepo.BulkInsert(e.ctx, e.db, []*masterdomain.MasterRule{{
		ID:             e.node.Generate(),
		CompanyID:      company.ID,
		ProductName:    "Term",
		ProductVariant: "Gold",
		PolicyTerm:     20,
		PPTMin:         5,
		PPTMax:         nil,
		TotalPct:       8,
		CommissionPct:  5,
		RewardPct:      2,
		LoadingPct:     1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}}))
	return company
}

const policyHeader = "Product Name,Product Variant,Premium Paying Term,Policy Term,Policy No,Original Issue Date,Net Premium,Par/Npar/UL\n"

func (e *testEnv) getCompany(t *testing.T, id string) *companydomain.Company {
	t.Helper()
	company, err := e.companysvc.Get(e.ctx, id)
	require.NoError(t, err)
	return company
}

func TestIngestFile_ConcreteScenario(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "acme")

	content := []byte(policyHeader + "Term,Gold,10,20,P1,01-02-2023,10000,par\n")
	batch, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{
		Filename: "acme.csv",
		Content:  content,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, batch.TotalRows)
	assert.Equal(t, 1, batch.Inserted)
	assert.Zero(t, batch.SkippedDuplicates)
	assert.Zero(t, batch.ErrorsCount)

	var record policydomain.PolicyRecord
	require.NoError(t, env.db.Where("company_id = ? AND policy_no = ?", company.ID, "P1").First(&record).Error)
	assert.Equal(t, 500.0, record.CommissionAmount)
	assert.Equal(t, 200.0, record.RewardAmount)
	assert.Equal(t, 100.0, record.LoadingAmount)
	assert.Equal(t, 800.0, record.TotalProfit)
	assert.Equal(t, 2023, record.IssueYear)
	assert.Equal(t, 2, record.IssueMonth)

	updated := env.getCompany(t, company.ID.String())
	assert.Equal(t, int64(1), updated.TotalPolicies)
	assert.Equal(t, 10000.0, updated.TotalPremium)
	assert.Equal(t, 800.0, updated.TotalProfit)
	require.NotNil(t, updated.LastTotalsAt)
}

func TestIngestFile_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "acme")

	content := []byte(policyHeader +
		"Term,Gold,10,20,P1,01-02-2023,10000,par\n" +
		"Term,Gold,12,20,P2,05-03-2023,5000,npar\n")
	req := ingestiondomain.IngestFileRequest{Filename: "acme.csv", Content: content}

	first, err := env.svc.IngestFile(env.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)
	assert.Zero(t, first.SkippedDuplicates)

	afterFirst := env.getCompany(t, company.ID.String())

	second, err := env.svc.IngestFile(env.ctx, req)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.SkippedDuplicates)

	// Re-uploading the identical file moves totals by exactly nothing.
	afterSecond := env.getCompany(t, company.ID.String())
	assert.Equal(t, afterFirst.TotalPolicies, afterSecond.TotalPolicies)
	assert.Equal(t, afterFirst.TotalPremium, afterSecond.TotalPremium)
	assert.Equal(t, afterFirst.TotalProfit, afterSecond.TotalProfit)
}

func TestIngestFile_NoMatchingRule(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "acme")

	// ppt 3 is below the rule's min of 5.
	content := []byte(policyHeader + "Term,Gold,3,20,P1,01-02-2023,10000,par\n")
	batch, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{
		Filename: "acme.csv",
		Content:  content,
	})
	require.NoError(t, err)

	assert.Zero(t, batch.Inserted)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "P1", batch.Errors[0].PolicyNo)
	assert.Equal(t, ingestiondomain.ReasonNoMatchingRule, batch.Errors[0].Error)
}

func TestIngestFile_MixedRows(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "acme")

	seed := []byte(policyHeader + "Term,Gold,10,20,P1,01-02-2023,10000,par\n")
	_, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "acme.csv", Content: seed})
	require.NoError(t, err)
	before := env.getCompany(t, company.ID.String())

	// P1 duplicates, P2 is new, one row has no issue date, one has no
	// policy number.
	mixed := []byte(policyHeader +
		"Term,Gold,10,20,P1,01-02-2023,10000,par\n" +
		"Term,Gold,15,20,P2,10-04-2023,20000,par\n" +
		"Term,Gold,10,20,P3,,7000,par\n" +
		"Term,Gold,10,20,,01-05-2023,7000,par\n")
	batch, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "acme.csv", Content: mixed})
	require.NoError(t, err)

	assert.Equal(t, 4, batch.TotalRows)
	assert.Equal(t, 1, batch.Inserted)
	assert.Equal(t, 1, batch.SkippedDuplicates)
	assert.Equal(t, 2, batch.ErrorsCount)

	// Totals moved only by the newly inserted row.
	after := env.getCompany(t, company.ID.String())
	assert.Equal(t, before.TotalPolicies+1, after.TotalPolicies)
	assert.Equal(t, before.TotalPremium+20000, after.TotalPremium)
	assert.Equal(t, before.TotalProfit+1600, after.TotalProfit)
}

func TestIngestFile_UnitLinkedRow(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "acme")

	content := []byte(policyHeader + "Term,Gold,10,20,P9,01-02-2023,10000,ul\n")
	batch, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "acme.csv", Content: content})
	require.NoError(t, err)
	require.Equal(t, 1, batch.Inserted)

	var record policydomain.PolicyRecord
	require.NoError(t, env.db.Where("company_id = ? AND policy_no = ?", company.ID, "P9").First(&record).Error)
	assert.Zero(t, record.LoadingAmount)
	assert.Zero(t, record.LoadingPct)
	assert.Equal(t, 700.0, record.TotalProfit)
}

func TestIngestFile_HeaderAliasEquivalence(t *testing.T) {
	env := newTestEnv(t)
	companyA := env.seedCompany(t, "alpha")
	companyB := env.seedCompany(t, "beta")

	fileA := []byte(policyHeader + "Term,Gold,10,20,P1,01-02-2023,10000,par\n")
	fileB := []byte("product,variant,PPT,pt,Policy Number,Issue Date,Premium,PlanType\n" +
		"Term,Gold,10,20,P1,01-02-2023,10000,par\n")

	_, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{CompanyID: companyA.ID.String(), Filename: "a.csv", Content: fileA})
	require.NoError(t, err)
	_, err = env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{CompanyID: companyB.ID.String(), Filename: "b.csv", Content: fileB})
	require.NoError(t, err)

	var recordA, recordB policydomain.PolicyRecord
	require.NoError(t, env.db.Where("company_id = ?", companyA.ID).First(&recordA).Error)
	require.NoError(t, env.db.Where("company_id = ?", companyB.ID).First(&recordB).Error)

	assert.Equal(t, recordA.ProductName, recordB.ProductName)
	assert.Equal(t, recordA.PremiumPayingTerm, recordB.PremiumPayingTerm)
	assert.Equal(t, recordA.OriginalIssueDate, recordB.OriginalIssueDate)
	assert.Equal(t, recordA.Premium, recordB.Premium)
	assert.Equal(t, recordA.CommissionAmount, recordB.CommissionAmount)
	assert.Equal(t, recordA.TotalProfit, recordB.TotalProfit)
}

func TestIngestFile_NoMasterRules(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.companysvc.ResolveOrCreate(env.ctx, "empty-co")
	require.NoError(t, err)

	content := []byte(policyHeader + "Term,Gold,10,20,P1,01-02-2023,10000,par\n")
	_, err = env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "empty-co.csv", Content: content})
	assert.ErrorIs(t, err, ingestiondomain.ErrNoMasterRules)
}

func TestIngestFile_UnknownCompany(t *testing.T) {
	env := newTestEnv(t)

	content := []byte(policyHeader + "Term,Gold,10,20,P1,01-02-2023,10000,par\n")
	_, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "nobody.csv", Content: content})
	assert.ErrorIs(t, err, companydomain.ErrCompanyNotFound)
}

func TestIngestFile_EmptyFile(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "acme")

	_, err := env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "acme.csv", Content: nil})
	assert.ErrorIs(t, err, ingestiondomain.ErrEmptyFile)

	// A header with no data rows is also empty.
	_, err = env.svc.IngestFile(env.ctx, ingestiondomain.IngestFileRequest{Filename: "acme.csv", Content: []byte(policyHeader)})
	assert.ErrorIs(t, err, ingestiondomain.ErrEmptyFile)
}
