package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/brokerage/internal/clock"
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	"github.com/smallbiznis/brokerage/internal/ingestion/calc"
	ingestiondomain "github.com/smallbiznis/brokerage/internal/ingestion/domain"
	"github.com/smallbiznis/brokerage/internal/ingestion/parse"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	mastersvc "github.com/smallbiznis/brokerage/internal/master/service"
	"github.com/smallbiznis/brokerage/internal/metrics"
	policydomain "github.com/smallbiznis/brokerage/internal/policy/domain"
	"github.com/smallbiznis/brokerage/pkg/tabular"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	CompanySvc  companydomain.Service
	CompanyRepo companydomain.Repository
	MasterRepo  masterdomain.Repository
	Metrics     *metrics.Metrics                  `optional:"true"`
	Transform   masterdomain.CompanyNameTransform `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	companysvc  companydomain.Service
	companyrepo companydomain.Repository
	masterrepo  masterdomain.Repository
	metrics     *metrics.Metrics
	transform   masterdomain.CompanyNameTransform
}

func NewService(p ServiceParam) ingestiondomain.Service {
	transform := p.Transform
	if transform == nil {
		transform = mastersvc.DeriveCompanyName
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("ingestion.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		companysvc:  p.CompanySvc,
		companyrepo: p.CompanyRepo,
		masterrepo:  p.MasterRepo,
		metrics:     p.Metrics,
		transform:   transform,
	}
}

func (s *Service) IngestFile(ctx context.Context, req ingestiondomain.IngestFileRequest) (*ingestiondomain.IngestionBatch, error) {
	company, err := s.resolveCompany(ctx, req)
	if err != nil {
		return nil, err
	}

	// Load the full rule set once per batch, not per row. An empty rate
	// table is a batch precondition failure, not a row error.
	rules, err := s.masterrepo.ListByCompany(ctx, s.db, company.ID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ingestiondomain.ErrNoMasterRules
	}

	if len(req.Content) == 0 {
		return nil, ingestiondomain.ErrEmptyFile
	}
	cells, err := tabular.Parse(req.Filename, req.Content)
	if err != nil {
		return nil, ingestiondomain.ErrInvalidFile
	}
	if len(cells) < 2 {
		return nil, ingestiondomain.ErrEmptyFile
	}

	columns := parse.MapHeaders(cells[0])
	batch := &ingestiondomain.IngestionBatch{
		BatchID:   uuid.NewString(),
		CompanyID: company.ID.String(),
		TotalRows: len(cells) - 1,
	}

	now := s.clock.Now()
	var candidates []*policydomain.PolicyRecord
	for _, line := range cells[1:] {
		row := parse.BuildRow(columns, line)

		if row.PolicyNo == "" {
			batch.Errors = append(batch.Errors, ingestiondomain.RowError{
				PolicyNo: row.PolicyNo,
				Error:    ingestiondomain.ReasonMissingPolicyNo,
			})
			continue
		}
		if !row.HasIssueDate {
			batch.Errors = append(batch.Errors, ingestiondomain.RowError{
				PolicyNo: row.PolicyNo,
				Error:    ingestiondomain.ReasonMissingIssueDate,
			})
			continue
		}

		rule := masterdomain.Match(rules, masterdomain.MatchQuery{
			ProductName:       row.ProductName,
			ProductVariant:    row.ProductVariant,
			PolicyTerm:        row.PolicyTerm,
			PremiumPayingTerm: row.PremiumPayingTerm,
		})
		if rule == nil {
			batch.Errors = append(batch.Errors, ingestiondomain.RowError{
				PolicyNo: row.PolicyNo,
				Error:    ingestiondomain.ReasonNoMatchingRule,
			})
			continue
		}

		breakdown := calc.Compute(*rule, row.NetPremium, row.PlanType)
		candidates = append(candidates, &policydomain.PolicyRecord{
			ID:                s.genID.Generate(),
			CompanyID:         company.ID,
			MasterRuleID:      rule.ID,
			ProductName:       row.ProductName,
			ProductVariant:    row.ProductVariant,
			PremiumPayingTerm: row.PremiumPayingTerm,
			PolicyTerm:        row.PolicyTerm,
			PolicyNo:          row.PolicyNo,
			OriginalIssueDate: row.OriginalIssueDate,
			IssueYear:         row.OriginalIssueDate.Year(),
			IssueMonth:        int(row.OriginalIssueDate.Month()),
			Premium:           row.NetPremium,
			SumAssured:        row.SumAssured,
			PlanType:          row.PlanType,
			CommissionPct:     breakdown.CommissionPct,
			RewardPct:         breakdown.RewardPct,
			LoadingPct:        breakdown.LoadingPct,
			CommissionAmount:  breakdown.CommissionAmount,
			RewardAmount:      breakdown.RewardAmount,
			LoadingAmount:     breakdown.LoadingAmount,
			TotalProfit:       breakdown.TotalProfit,
			Raw:               datatypes.JSONMap(row.Raw),
			CreatedAt:         now,
		})
	}

	delta := s.writeCandidates(ctx, candidates, batch)

	// Fold only the newly inserted rows into the running totals, so a
	// re-upload of the same file moves nothing.
	if !delta.IsZero() {
		if err := s.companyrepo.ApplyTotalsDelta(ctx, s.db, company.ID, delta, s.clock.Now()); err != nil {
			return nil, err
		}
	}

	batch.ErrorsCount = len(batch.Errors)
	if s.metrics != nil {
		s.metrics.ObserveBatch(company.Name, batch.Inserted, batch.SkippedDuplicates, batch.ErrorsCount)
	}

	s.log.Info("ingestion batch complete",
		zap.String("batch_id", batch.BatchID),
		zap.String("company_id", batch.CompanyID),
		zap.Int("total_rows", batch.TotalRows),
		zap.Int("inserted", batch.Inserted),
		zap.Int("duplicates", batch.SkippedDuplicates),
		zap.Int("row_errors", batch.ErrorsCount),
	)
	return batch, nil
}

func (s *Service) resolveCompany(ctx context.Context, req ingestiondomain.IngestFileRequest) (*companydomain.Company, error) {
	if strings.TrimSpace(req.CompanyID) != "" {
		return s.companysvc.Get(ctx, req.CompanyID)
	}
	return s.companysvc.GetByName(ctx, s.transform(req.Filename))
}

// writeCandidates inserts each enriched record unless its natural key
// already exists, accumulating the totals delta from the rows that were
// actually inserted. One row's write failure never aborts the batch.
func (s *Service) writeCandidates(ctx context.Context, candidates []*policydomain.PolicyRecord, batch *ingestiondomain.IngestionBatch) companydomain.TotalsDelta {
	var delta companydomain.TotalsDelta

	for _, record := range candidates {
		inserted, err := s.insertPolicyRecord(ctx, record)
		if err != nil {
			batch.Errors = append(batch.Errors, ingestiondomain.RowError{
				PolicyNo: record.PolicyNo,
				Error:    err.Error(),
			})
			continue
		}
		if !inserted {
			batch.SkippedDuplicates++
			continue
		}

		batch.Inserted++
		delta.Policies++
		delta.Premium += record.Premium
		delta.Commission += record.CommissionAmount
		delta.Reward += record.RewardAmount
		delta.Loading += record.LoadingAmount
		delta.Profit += record.TotalProfit
	}

	return delta
}

// insertPolicyRecord relies on the insert's own conflict outcome to detect
// duplicates; a pre-check would race with concurrent uploads of
// overlapping files.
func (s *Service) insertPolicyRecord(ctx context.Context, record *policydomain.PolicyRecord) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"},
				{Name: "policy_no"},
				{Name: "original_issue_date"},
			},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
