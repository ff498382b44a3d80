package market

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/finnews-io/finnews/internal/fallback"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

// GetFilings retrieves regulatory filings, degrading to a news search scoped
// to the DART viewer when the filings API cannot answer. The attempts list
// records which source produced the result.
func (s *Service) GetFilings(ctx context.Context, opts interfaces.FilingsOptions) (*models.FilingsResult, error) {
	name := strings.TrimSpace(opts.CorpName)
	corpCode := strings.TrimSpace(opts.CorpCode)
	if name == "" && corpCode == "" {
		return nil, fmt.Errorf("corp name or corp code is required")
	}

	if corpCode == "" {
		if code, ok := s.filings.LookupCorpCode(name); ok {
			corpCode = code
		}
	}

	searchTerm := name
	if searchTerm == "" {
		searchTerm = corpCode
	}
	newsStep := &fallback.Step[*models.FilingsResult]{
		Name: "news",
		Call: func(ctx context.Context) (*models.FilingsResult, error) {
			items, err := s.news.Search(ctx, "site:dart.fss.or.kr "+searchTerm)
			if err != nil {
				return nil, err
			}
			return &models.FilingsResult{Source: "news", News: items}, nil
		},
	}

	// Without a corp code the DART list endpoint cannot be called at all;
	// the news search is the only viable source.
	if corpCode == "" {
		attempt := models.SourceAttempt{
			Adapter: "dart",
			Outcome: models.AttemptFailed,
			Warning: fmt.Sprintf("no corp code known for %q", name),
		}
		result, err := newsStep.Call(ctx)
		if err != nil {
			return nil, fmt.Errorf("filings lookup for %q: %w", name, err)
		}
		result.Attempts = append([]models.SourceAttempt{attempt},
			models.SourceAttempt{Adapter: "news", Outcome: models.AttemptSuccess})
		result.Warnings = fallback.Warnings(result.Attempts)
		return result, nil
	}

	primary := fallback.Step[*models.FilingsResult]{
		Name: "dart",
		Call: func(ctx context.Context) (*models.FilingsResult, error) {
			items, err := s.filings.ListFilings(ctx, corpCode, interfaces.FilingParams{
				From:  opts.From,
				To:    opts.To,
				Limit: opts.Limit,
			})
			if err != nil {
				return nil, err
			}
			return &models.FilingsResult{Source: "dart", Items: items}, nil
		},
	}

	result, attempts, err := fallback.Run(ctx, primary, newsStep)
	if err != nil {
		return nil, err
	}
	result.Attempts = attempts
	result.Warnings = fallback.Warnings(attempts)
	return result, nil
}

// Account names used by the health analysis, as reported by DART.
const (
	accountTotalAssets        = "자산총계"
	accountTotalLiabilities   = "부채총계"
	accountEquity             = "자본총계"
	accountRevenue            = "매출액"
	accountNetIncome          = "당기순이익"
	accountCurrentAssets      = "유동자산"
	accountCurrentLiabilities = "유동부채"
)

// analyzeHealth scores a financial statement. Each computable ratio adds one
// point to the maximum; a company is healthy when it earns at least two
// thirds of the achievable points.
func analyzeHealth(stmt *models.FinancialStatement) models.FinancialHealth {
	if stmt == nil || len(stmt.Accounts) == 0 {
		return models.FinancialHealth{Reason: "no_data"}
	}

	find := func(name string) *float64 {
		for _, acct := range stmt.Accounts {
			if acct.Name != name {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(acct.Amount, ",", ""), 64)
			if err != nil {
				return nil
			}
			return &v
		}
		return nil
	}

	equity := find(accountEquity)
	liabilities := find(accountTotalLiabilities)
	netIncome := find(accountNetIncome)
	currentAssets := find(accountCurrentAssets)
	currentLiabilities := find(accountCurrentLiabilities)

	health := models.FinancialHealth{
		Metrics: models.FinancialMetrics{
			Revenue:   find(accountRevenue),
			NetIncome: netIncome,
		},
	}

	if equity != nil && *equity > 0 && netIncome != nil {
		roe := *netIncome / *equity * 100
		health.Metrics.ROE = &roe
		health.MaxScore++
		if roe >= 10 {
			health.Score++
		}
	}
	if equity != nil && *equity > 0 && liabilities != nil {
		debtRatio := *liabilities / *equity * 100
		health.Metrics.DebtRatio = &debtRatio
		health.MaxScore++
		if debtRatio <= 150 {
			health.Score++
		}
	}
	if currentAssets != nil && currentLiabilities != nil && *currentLiabilities > 0 {
		currentRatio := *currentAssets / *currentLiabilities * 100
		health.Metrics.CurrentRatio = &currentRatio
		health.MaxScore++
		if currentRatio >= 150 {
			health.Score++
		}
	}

	if health.MaxScore == 0 {
		health.Reason = "insufficient_accounts"
		return health
	}
	health.Healthy = health.Score*3 >= health.MaxScore*2
	return health
}

// IndustryRecommendations ranks an industry's companies by financial health
// derived from their consolidated statements.
func (s *Service) IndustryRecommendations(ctx context.Context, industry string, year, topN int) (*models.IndustryReport, error) {
	names, ok := industries[strings.TrimSpace(industry)]
	if !ok {
		available := make([]string, 0, len(industries))
		for k := range industries {
			available = append(available, k)
		}
		sort.Strings(available)
		return nil, fmt.Errorf("unknown industry %q (available: %s)", industry, strings.Join(available, ", "))
	}
	if topN <= 0 {
		topN = 3
	}

	report := &models.IndustryReport{Industry: industry, Year: year}

	for _, name := range names {
		code, ok := s.filings.LookupCorpCode(name)
		if !ok {
			continue
		}

		pick := models.IndustryPick{CorpName: name, CorpCode: code}
		stmt, err := s.filings.GetFinancialStatement(ctx, code, year, "")
		if err != nil {
			s.logger.Warn().Str("corp_name", name).Err(err).Msg("Statement fetch failed")
			pick.Error = err.Error()
			pick.Health = models.FinancialHealth{Reason: "fetch_failed"}
		} else {
			pick.Health = analyzeHealth(stmt)
		}
		report.AllCompanies = append(report.AllCompanies, pick)
	}

	sort.SliceStable(report.AllCompanies, func(i, j int) bool {
		a, b := report.AllCompanies[i].Health, report.AllCompanies[j].Health
		if a.Healthy != b.Healthy {
			return a.Healthy
		}
		return a.Score > b.Score
	})

	n := topN
	if n > len(report.AllCompanies) {
		n = len(report.AllCompanies)
	}
	report.Recommendations = append([]models.IndustryPick(nil), report.AllCompanies[:n]...)

	return report, nil
}
