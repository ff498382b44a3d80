package market

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

const macroConcurrency = 4

// GetFREDSeries retrieves multiple FRED series concurrently. A failing
// series is annotated in place; one sick series never takes down the batch.
func (s *Service) GetFREDSeries(ctx context.Context, seriesIDs []string, opts ...interfaces.SeriesOption) ([]*models.MacroSeries, error) {
	if len(seriesIDs) == 0 {
		return nil, fmt.Errorf("at least one series id is required")
	}

	results := make([]*models.MacroSeries, len(seriesIDs))

	var g errgroup.Group
	g.SetLimit(macroConcurrency)
	for i, id := range seriesIDs {
		g.Go(func() error {
			series, err := s.fred.GetSeries(ctx, id, opts...)
			if err != nil {
				s.logger.Warn().Str("series_id", id).Err(err).Msg("FRED series failed")
				results[i] = &models.MacroSeries{SeriesID: id, Error: err.Error()}
				return nil
			}
			results[i] = series
			return nil
		})
	}
	g.Wait()

	return results, nil
}

// GetECOSSeries retrieves one ECOS statistic.
func (s *Service) GetECOSSeries(ctx context.Context, query interfaces.ECOSQuery) (*models.MacroSeries, error) {
	return s.ecos.GetSeries(ctx, query)
}

// presetSpec describes the sub-requests of one composite macro preset.
type presetSpec struct {
	fredSeries   []string
	ecosQueries  []interfaces.ECOSQuery
	chartSymbols []string
}

func presetFor(name string, now time.Time) (presetSpec, error) {
	ecosStart := now.AddDate(-2, 0, 0).Format("200601")
	ecosEnd := now.Format("200601")

	switch name {
	case "us":
		return presetSpec{
			fredSeries:   []string{"FEDFUNDS", "DGS10", "DGS2", "CPIAUCSL", "UNRATE"},
			chartSymbols: []string{"^GSPC", "^NDX", "^VIX", "DX=F"},
		}, nil
	case "kr":
		return presetSpec{
			ecosQueries: []interfaces.ECOSQuery{
				{StatCode: "722Y001", Cycle: "M", Start: ecosStart, End: ecosEnd, ItemCode1: "0101000"},
				{StatCode: "901Y009", Cycle: "M", Start: ecosStart, End: ecosEnd, ItemCode1: "0"},
			},
			chartSymbols: []string{"^KS11", "KRW=X"},
		}, nil
	case "global":
		return presetSpec{
			fredSeries:   []string{"DGS10"},
			chartSymbols: []string{"^GSPC", "^KS11", "GC=F", "CL=F", "EURUSD=X"},
		}, nil
	default:
		return presetSpec{}, fmt.Errorf("unknown preset %q (want us, kr or global)", name)
	}
}

// MacroPreset runs a composite preset across providers. Every sub-request
// runs regardless of its siblings; the result carries per-source status so a
// missing credential on one provider degrades the answer instead of voiding
// it.
func (s *Service) MacroPreset(ctx context.Context, preset string) (*models.MacroPresetResult, error) {
	spec, err := presetFor(preset, time.Now())
	if err != nil {
		return nil, err
	}

	nSeries := len(spec.fredSeries) + len(spec.ecosQueries)
	series := make([]*models.MacroSeries, nSeries)
	charts := make([]*models.ChartSeries, len(spec.chartSymbols))
	statuses := make([]models.MacroSourceStatus, nSeries+len(spec.chartSymbols))

	var g errgroup.Group
	g.SetLimit(macroConcurrency)

	for i, id := range spec.fredSeries {
		g.Go(func() error {
			got, err := s.fred.GetSeries(ctx, id)
			statuses[i] = sourceStatus("fred:"+id, err)
			if err == nil {
				series[i] = got
			}
			return nil
		})
	}
	for j, q := range spec.ecosQueries {
		idx := len(spec.fredSeries) + j
		g.Go(func() error {
			got, err := s.ecos.GetSeries(ctx, q)
			statuses[idx] = sourceStatus("ecos:"+q.StatCode, err)
			if err == nil {
				series[idx] = got
			}
			return nil
		})
	}
	for k, symbol := range spec.chartSymbols {
		idx := nSeries + k
		g.Go(func() error {
			got, err := s.charts.GetChart(ctx, symbol, "1mo", "1d")
			statuses[idx] = sourceStatus("chart:"+symbol, err)
			if err == nil {
				charts[k] = got
			}
			return nil
		})
	}
	g.Wait()

	result := &models.MacroPresetResult{
		Preset:  preset,
		Sources: statuses,
	}
	for _, sr := range series {
		if sr != nil {
			result.Series = append(result.Series, sr)
		}
	}
	for _, ch := range charts {
		if ch != nil {
			result.Charts = append(result.Charts, ch)
		}
	}

	s.logger.Info().
		Str("preset", preset).
		Int("series", len(result.Series)).
		Int("charts", len(result.Charts)).
		Msg("Macro preset assembled")

	return result, nil
}

func sourceStatus(source string, err error) models.MacroSourceStatus {
	status := models.MacroSourceStatus{Source: source, OK: err == nil}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}
