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
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	masterrepository "github.com/smallbiznis/brokerage/internal/master/repository"
	"github.com/smallbiznis/brokerage/internal/ownerctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (masterdomain.Service, companydomain.Service, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&companydomain.Company{}, &masterdomain.MasterRule{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	companySvc := companyservice.NewService(companyservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fc,
		Repo:  companyrepository.Provide(),
	})
	svc := NewService(ServiceParam{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      fc,
		Repo:       masterrepository.Provide(),
		CompanySvc: companySvc,
	})

	ctx := ownerctx.WithOwnerID(context.Background(), int64(node.Generate()))
	return svc, companySvc, ctx
}

func TestDeriveCompanyName(t *testing.T) {
	assert.Equal(t, "acme", DeriveCompanyName("acme.csv"))
	assert.Equal(t, "hdfc-life-q1", DeriveCompanyName("/tmp/uploads/HDFC Life Q1.xlsx"))
	assert.Equal(t, "sun-life-2023", DeriveCompanyName("Sun_Life 2023.CSV"))
}

func TestUploadRateTable(t *testing.T) {
	svc, companySvc, ctx := newTestService(t)

	content := []byte("Product Name,Product Variant,Policy Term,PPT Min,PPT Max,Total %,Commission %,Reward %,Loading %\n" +
		"Term,Gold,20,5,9,8,5,2,1\n" +
		"Term,Gold,20,10,,10,6,3,1\n")

	result, err := svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{
		Filename: "Acme Life.csv",
		Content:  content,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RulesAdded)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "acme-life", result.CompanyName)

	// The company comes into existence as a side effect of the upload.
	company, err := companySvc.GetByName(ctx, "acme-life")
	require.NoError(t, err)
	assert.Equal(t, result.CompanyID, company.ID.String())

	rules, err := svc.ListByCompany(ctx, result.CompanyID)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, 5, rules[0].PPTMin)
	require.NotNil(t, rules[0].PPTMax)
	assert.Equal(t, 9, *rules[0].PPTMax)
	assert.Equal(t, 5.0, rules[0].CommissionPct)

	// An empty max cell means the band is open above.
	assert.Equal(t, 10, rules[1].PPTMin)
	assert.Nil(t, rules[1].PPTMax)
}

func TestUploadRateTable_ExplicitCompanyName(t *testing.T) {
	svc, _, ctx := newTestService(t)

	content := []byte("product,policy term,ppt min,commission\nTerm,20,5,5\n")
	result, err := svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{
		Filename:    "export-77.csv",
		Content:     content,
		CompanyName: "acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", result.CompanyName)
	assert.Equal(t, 1, result.RulesAdded)
}

func TestUploadRateTable_RowErrors(t *testing.T) {
	svc, _, ctx := newTestService(t)

	// Second data row has a non-numeric policy term; the first still lands.
	content := []byte("product,policy term,ppt min,commission\n" +
		"Term,20,5,5\n" +
		"Term,twenty,5,5\n")
	result, err := svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{
		Filename: "acme.csv",
		Content:  content,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RulesAdded)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
}

func TestUploadRateTable_EmptyFile(t *testing.T) {
	svc, _, ctx := newTestService(t)

	_, err := svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{Filename: "acme.csv"})
	assert.ErrorIs(t, err, masterdomain.ErrEmptyFile)

	_, err = svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{
		Filename: "acme.csv",
		Content:  []byte("product,policy term,ppt min\n"),
	})
	assert.ErrorIs(t, err, masterdomain.ErrEmptyFile)
}

func TestUploadRateTable_UnsupportedExtension(t *testing.T) {
	svc, _, ctx := newTestService(t)

	_, err := svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{
		Filename: "acme.pdf",
		Content:  []byte("not a table"),
	})
	assert.ErrorIs(t, err, masterdomain.ErrInvalidFile)
}

func TestUpdateAndDeleteRule(t *testing.T) {
	svc, _, ctx := newTestService(t)

	content := []byte("product,policy term,ppt min,commission\nTerm,20,5,5\n")
	result, err := svc.UploadRateTable(ctx, masterdomain.UploadRateTableRequest{Filename: "acme.csv", Content: content})
	require.NoError(t, err)

	rules, err := svc.ListByCompany(ctx, result.CompanyID)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	newPct := 7.5
	updated, err := svc.Update(ctx, masterdomain.UpdateRuleRequest{
		CompanyID:     result.CompanyID,
		RuleID:        rules[0].ID.String(),
		CommissionPct: &newPct,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, updated.CommissionPct)
	assert.Equal(t, 20, updated.PolicyTerm)

	require.NoError(t, svc.Delete(ctx, result.CompanyID, rules[0].ID.String()))

	rules, err = svc.ListByCompany(ctx, result.CompanyID)
	require.NoError(t, err)
	assert.Empty(t, rules)

	err = svc.Delete(ctx, result.CompanyID, updated.ID.String())
	assert.ErrorIs(t, err, masterdomain.ErrRuleNotFound)
}
