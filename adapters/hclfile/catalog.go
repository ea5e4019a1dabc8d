package hclfile

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloud-quote/core/catalog"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// LoadCatalog loads a catalog file, or every .hcl file of a directory
func (l *Loader) LoadCatalog(path string) (*catalog.Catalog, error) {
	paths, err := files(path)
	if err != nil {
		return nil, err
	}

	c := catalog.NewCatalog()
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrap(errors.TypeNotFound, "cannot read "+p, err)
		}
		entries, err := l.ParseCatalog(src, p)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if err := c.Register(entry); err != nil {
				return nil, err
			}
		}
	}

	if errs := c.Validate(catalog.DefaultValidationRules()); len(errs) > 0 {
		return nil, errs[0]
	}

	logging.Info("catalog loaded", zap.String("path", path), zap.Int("files", len(paths)), zap.Int("entries", c.Len()))
	return c, nil
}

// ParseCatalog decodes the entries of one catalog file, in file order
func (l *Loader) ParseCatalog(src []byte, filename string) ([]*types.Entry, error) {
	var file catalogFile
	if err := l.parse(src, filename, &file); err != nil {
		return nil, err
	}

	terms := make(map[string]*types.Term, len(file.Terms))
	for _, t := range file.Terms {
		terms[t.Name] = &types.Term{
			ID:          t.Name,
			Name:        t.Name,
			Period:      t.Period,
			Convertible: t.Convertible,
			Reservation: t.Reservation,
		}
	}

	instanceTypes := make(map[string]*types.InstanceType, len(file.Types))
	for _, t := range file.Types {
		ratings, err := parseRatings(t.Ratings)
		if err != nil {
			return nil, errors.Parsing("type "+t.Code, err)
		}
		instanceTypes[t.Code] = &types.InstanceType{
			ID:        t.ID,
			Code:      t.Code,
			Name:      t.Name,
			CPU:       t.CPU,
			GPU:       t.GPU,
			RAM:       t.RAM,
			Constant:  t.Constant,
			Physical:  t.Physical,
			Processor: t.Processor,
			AutoScale: t.AutoScale,
			Ratings:   ratings,
		}
	}

	entries := make([]*types.Entry, 0, len(file.Prices))
	for i := range file.Prices {
		entry, err := l.entry(&file.Prices[i], terms, instanceTypes)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Loader) entry(p *priceBlock, terms map[string]*types.Term, instanceTypes map[string]*types.InstanceType) (*types.Entry, error) {
	entry := &types.Entry{
		ID:       p.ID,
		Category: types.Category(strings.ToLower(p.Category)),
		Kind:     types.KindFixed,
		Location: p.Location,
		License:  p.License,
		OS:       p.OS,
		Engine:   p.Engine,
		Edition:  p.Edition,
		Software: p.Software,
	}

	if p.Type != "" {
		t, ok := instanceTypes[p.Type]
		if !ok {
			return nil, errors.NotFound("type", p.Type).WithContext("entry", p.ID)
		}
		entry.Type = t
	}
	if p.Term != "" {
		t, ok := terms[p.Term]
		if !ok {
			return nil, errors.NotFound("term", p.Term).WithContext("entry", p.ID)
		}
		entry.Term = t
	}

	var err error
	// money keeps the first evaluation error
	money := func(expr hcl.Expression, name string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		var v decimal.Decimal
		v, err = l.amount(expr, p.ID+"."+name)
		return v
	}

	entry.Cost = money(p.Cost, "cost")
	entry.CostPeriod = money(p.CostPeriod, "cost_period")
	entry.CO2 = money(p.CO2, "co2")
	entry.CO2Period = money(p.CO2Period, "co2_period")
	if err != nil {
		return nil, err
	}
	if entry.InitialCost, err = l.optionalAmount(p.InitialCost, p.ID+".initial_cost"); err != nil {
		return nil, err
	}

	if d := p.Dynamic; d != nil {
		entry.Kind = types.KindDynamic
		entry.Dynamic = &types.DynamicRates{
			IncrementCPU: d.IncrementCPU,
			IncrementGPU: d.IncrementGPU,
			IncrementRAM: d.IncrementRAM,
			MinCPU:       d.MinCPU,
			MaxCPU:       d.MaxCPU,
			MinGPU:       d.MinGPU,
			MaxGPU:       d.MaxGPU,
			MinRAM:       d.MinRAM,
			MaxRAM:       d.MaxRAM,
			MinRAMRatio:  d.MinRAMRatio,
			MaxRAMRatio:  d.MaxRAMRatio,
			CostCPU:      money(d.CostCPU, "cost_cpu"),
			CostGPU:      money(d.CostGPU, "cost_gpu"),
			CostRAM:      money(d.CostRAM, "cost_ram"),
			CO2CPU:       money(d.CO2CPU, "co2_cpu"),
			CO2GPU:       money(d.CO2GPU, "co2_gpu"),
			CO2RAM:       money(d.CO2RAM, "co2_ram"),
		}
	}

	if f := p.Function; f != nil {
		entry.Function = &types.FunctionRates{
			CostRequests:                money(f.CostRequests, "cost_requests"),
			CostRAMRequest:              money(f.CostRAMRequest, "cost_ram_request"),
			CostRAMRequestConcurrency:   money(f.CostRAMRequestConcurrency, "cost_ram_request_concurrency"),
			IncrementRAMRequestDuration: f.IncrementRAMRequestDuration,
			CO2Requests:                 money(f.CO2Requests, "co2_requests"),
			CO2RAMRequest:               money(f.CO2RAMRequest, "co2_ram_request"),
			CO2RAMRequestConcurrency:    money(f.CO2RAMRequestConcurrency, "co2_ram_request_concurrency"),
		}
	}

	if s := p.Storage; s != nil {
		latency, ok := types.ParseRating(s.Latency)
		if !ok {
			return nil, errors.Newf(errors.TypeParsing, "unknown latency %q", s.Latency).WithContext("entry", p.ID)
		}
		entry.Storage = &types.StorageRates{
			CostGB:      money(s.CostGB, "cost_gb"),
			CO2GB:       money(s.CO2GB, "co2_gb"),
			MinimalSize: s.MinimalSize,
			MaximalSize: s.MaximalSize,
			Increment:   s.Increment,
			Latency:     latency,
			Optimized:   s.Optimized,
		}
	}

	if s := p.Support; s != nil {
		entry.Support = &types.SupportRates{
			RatePercent: money(s.RatePercent, "rate_percent"),
			MinMonthly:  money(s.MinMonthly, "min_monthly"),
		}
	}

	if err != nil {
		return nil, err
	}
	return entry, nil
}

func parseRatings(b *ratingsBlock) (types.Ratings, error) {
	var r types.Ratings
	if b == nil {
		return r, nil
	}
	for _, axis := range []struct {
		name   string
		target *types.Rating
	}{
		{b.CPU, &r.CPU},
		{b.RAM, &r.RAM},
		{b.Network, &r.Network},
		{b.Storage, &r.Storage},
	} {
		rating, ok := types.ParseRating(axis.name)
		if !ok {
			return r, errors.Newf(errors.TypeParsing, "unknown rating %q", axis.name)
		}
		*axis.target = rating
	}
	return r, nil
}
