package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/brokerage/internal/clock"
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	"github.com/smallbiznis/brokerage/pkg/tabular"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ruleHeaderAliases maps normalized rate-table column headers to canonical
// field keys. Unknown headers are ignored.
var ruleHeaderAliases = map[string]string{
	"productname": "productName",
	"product":     "productName",

	"productvariant": "productVariant",
	"variant":        "productVariant",

	"policyterm": "policyTerm",
	"pt":         "policyTerm",

	"pptmin":               "pptMin",
	"premiumpayingtermmin": "pptMin",
	"minppt":               "pptMin",

	"pptmax":               "pptMax",
	"premiumpayingtermmax": "pptMax",
	"maxppt":               "pptMax",

	"totalpct": "totalPct",
	"total%":   "totalPct",
	"total":    "totalPct",

	"commissionpct": "commissionPct",
	"commission%":   "commissionPct",
	"commission":    "commissionPct",

	"rewardpct": "rewardPct",
	"reward%":   "rewardPct",
	"reward":    "rewardPct",

	"loadingpct": "loadingPct",
	"loading%":   "loadingPct",
	"loading":    "loadingPct",
}

// DeriveCompanyName is the default filename transform; "HDFC Life Q1.xlsx"
// becomes "hdfc-life-q1".
func DeriveCompanyName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return slug.Make(base)
}

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       masterdomain.Repository
	CompanySvc companydomain.Service
	Transform  masterdomain.CompanyNameTransform `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       masterdomain.Repository
	companysvc companydomain.Service
	transform  masterdomain.CompanyNameTransform
}

func NewService(p ServiceParam) masterdomain.Service {
	transform := p.Transform
	if transform == nil {
		transform = DeriveCompanyName
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("master.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		companysvc: p.CompanySvc,
		transform:  transform,
	}
}

func (s *Service) UploadRateTable(ctx context.Context, req masterdomain.UploadRateTableRequest) (*masterdomain.UploadRateTableResult, error) {
	if len(req.Content) == 0 {
		return nil, masterdomain.ErrEmptyFile
	}

	rows, err := tabular.Parse(req.Filename, req.Content)
	if err != nil {
		return nil, masterdomain.ErrInvalidFile
	}
	if len(rows) < 2 {
		return nil, masterdomain.ErrEmptyFile
	}

	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		companyName = s.transform(req.Filename)
	}
	if companyName == "" {
		return nil, companydomain.ErrInvalidName
	}

	company, err := s.companysvc.ResolveOrCreate(ctx, companyName)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		columns[i] = ruleHeaderAliases[tabular.NormalizeHeader(header)]
	}

	now := s.clock.Now()
	var rules []*masterdomain.MasterRule
	var rowErrors []masterdomain.RowError
	for i, cells := range rows[1:] {
		rule, err := s.parseRuleRow(columns, cells)
		if err != nil {
			rowErrors = append(rowErrors, masterdomain.RowError{Row: i + 2, Error: err.Error()})
			continue
		}
		rule.ID = s.genID.Generate()
		rule.CompanyID = company.ID
		rule.CreatedAt = now
		rule.UpdatedAt = now
		rules = append(rules, rule)
	}

	if err := s.repo.BulkInsert(ctx, s.db, rules); err != nil {
		return nil, err
	}

	s.log.Info("rate table uploaded",
		zap.String("company_id", company.ID.String()),
		zap.Int("rules", len(rules)),
		zap.Int("rejected_rows", len(rowErrors)),
	)

	return &masterdomain.UploadRateTableResult{
		CompanyID:   company.ID.String(),
		CompanyName: company.Name,
		RulesAdded:  len(rules),
		Errors:      rowErrors,
	}, nil
}

func (s *Service) parseRuleRow(columns []string, cells []string) (*masterdomain.MasterRule, error) {
	var rule masterdomain.MasterRule
	seen := map[string]bool{}

	for i, key := range columns {
		if key == "" || i >= len(cells) {
			continue
		}
		value := strings.TrimSpace(cells[i])
		if value == "" {
			continue
		}
		seen[key] = true

		switch key {
		case "productName":
			rule.ProductName = value
		case "productVariant":
			rule.ProductVariant = value
		case "policyTerm":
			term, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid policy term %q", value)
			}
			rule.PolicyTerm = term
		case "pptMin":
			min, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid ppt min %q", value)
			}
			rule.PPTMin = min
		case "pptMax":
			max, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid ppt max %q", value)
			}
			rule.PPTMax = &max
		case "totalPct", "commissionPct", "rewardPct", "loadingPct":
			pct, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid percentage %q", value)
			}
			switch key {
			case "totalPct":
				rule.TotalPct = pct
			case "commissionPct":
				rule.CommissionPct = pct
			case "rewardPct":
				rule.RewardPct = pct
			case "loadingPct":
				rule.LoadingPct = pct
			}
		}
	}

	if rule.ProductName == "" {
		return nil, fmt.Errorf("missing product name")
	}
	if !seen["policyTerm"] {
		return nil, fmt.Errorf("missing policy term")
	}
	if !seen["pptMin"] {
		return nil, fmt.Errorf("missing ppt min")
	}
	return &rule, nil
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]masterdomain.MasterRule, error) {
	company, err := s.companysvc.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, s.db, company.ID)
}

func (s *Service) Update(ctx context.Context, req masterdomain.UpdateRuleRequest) (*masterdomain.MasterRule, error) {
	company, err := s.companysvc.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	ruleID, err := snowflake.ParseString(strings.TrimSpace(req.RuleID))
	if err != nil || ruleID == 0 {
		return nil, masterdomain.ErrInvalidRule
	}

	rule, err := s.repo.FindByID(ctx, s.db, company.ID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, masterdomain.ErrRuleNotFound
	}

	if req.ProductName != nil {
		rule.ProductName = strings.TrimSpace(*req.ProductName)
	}
	if req.ProductVariant != nil {
		rule.ProductVariant = strings.TrimSpace(*req.ProductVariant)
	}
	if req.PolicyTerm != nil {
		rule.PolicyTerm = *req.PolicyTerm
	}
	if req.PPTMin != nil {
		rule.PPTMin = *req.PPTMin
	}
	if req.PPTMax != nil {
		rule.PPTMax = req.PPTMax
	}
	if req.TotalPct != nil {
		rule.TotalPct = *req.TotalPct
	}
	if req.CommissionPct != nil {
		rule.CommissionPct = *req.CommissionPct
	}
	if req.RewardPct != nil {
		rule.RewardPct = *req.RewardPct
	}
	if req.LoadingPct != nil {
		rule.LoadingPct = *req.LoadingPct
	}
	rule.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) Delete(ctx context.Context, companyID, ruleID string) error {
	company, err := s.companysvc.Get(ctx, companyID)
	if err != nil {
		return err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(ruleID))
	if err != nil || id == 0 {
		return masterdomain.ErrInvalidRule
	}

	rule, err := s.repo.FindByID(ctx, s.db, company.ID, id)
	if err != nil {
		return err
	}
	if rule == nil {
		return masterdomain.ErrRuleNotFound
	}

	return s.repo.Delete(ctx, s.db, company.ID, id)
}
