package hclfile

import "github.com/hashicorp/hcl/v2"

// catalogFile is the root of a catalog file
type catalogFile struct {
	Terms  []termBlock  `hcl:"term,block"`
	Types  []typeBlock  `hcl:"type,block"`
	Prices []priceBlock `hcl:"price,block"`
}

type termBlock struct {
	Name        string `hcl:"name,label"`
	Period      int    `hcl:"period,optional"`
	Convertible bool   `hcl:"convertible,optional"`
	Reservation bool   `hcl:"reservation,optional"`
}

type typeBlock struct {
	Code      string        `hcl:"code,label"`
	ID        int           `hcl:"id"`
	Name      string        `hcl:"name,optional"`
	CPU       float64       `hcl:"cpu,optional"`
	GPU       float64       `hcl:"gpu,optional"`
	RAM       float64       `hcl:"ram,optional"`
	Constant  *bool         `hcl:"constant,optional"`
	Physical  *bool         `hcl:"physical,optional"`
	Processor string        `hcl:"processor,optional"`
	AutoScale bool          `hcl:"auto_scale,optional"`
	Ratings   *ratingsBlock `hcl:"ratings,block"`
}

type ratingsBlock struct {
	CPU     string `hcl:"cpu,optional"`
	RAM     string `hcl:"ram,optional"`
	Network string `hcl:"network,optional"`
	Storage string `hcl:"storage,optional"`
}

// priceBlock holds money as expressions, evaluated into decimals
type priceBlock struct {
	ID       string `hcl:"id,label"`
	Category string `hcl:"category"`
	Type     string `hcl:"type,optional"`
	Term     string `hcl:"term,optional"`
	Location string `hcl:"location,optional"`
	License  string `hcl:"license,optional"`
	OS       string `hcl:"os,optional"`
	Engine   string `hcl:"engine,optional"`
	Edition  string `hcl:"edition,optional"`
	Software string `hcl:"software,optional"`

	Cost        hcl.Expression `hcl:"cost,optional"`
	CostPeriod  hcl.Expression `hcl:"cost_period,optional"`
	InitialCost hcl.Expression `hcl:"initial_cost,optional"`
	CO2         hcl.Expression `hcl:"co2,optional"`
	CO2Period   hcl.Expression `hcl:"co2_period,optional"`

	Dynamic  *dynamicBlock  `hcl:"dynamic,block"`
	Function *functionBlock `hcl:"function,block"`
	Storage  *storageBlock  `hcl:"storage,block"`
	Support  *supportBlock  `hcl:"support,block"`
}

type dynamicBlock struct {
	IncrementCPU float64  `hcl:"increment_cpu"`
	IncrementGPU float64  `hcl:"increment_gpu,optional"`
	IncrementRAM float64  `hcl:"increment_ram"`
	MinCPU       float64  `hcl:"min_cpu,optional"`
	MaxCPU       *float64 `hcl:"max_cpu,optional"`
	MinGPU       float64  `hcl:"min_gpu,optional"`
	MaxGPU       *float64 `hcl:"max_gpu,optional"`
	MinRAM       float64  `hcl:"min_ram,optional"`
	MaxRAM       *float64 `hcl:"max_ram,optional"`
	MinRAMRatio  float64  `hcl:"min_ram_ratio,optional"`
	MaxRAMRatio  float64  `hcl:"max_ram_ratio,optional"`

	CostCPU hcl.Expression `hcl:"cost_cpu,optional"`
	CostGPU hcl.Expression `hcl:"cost_gpu,optional"`
	CostRAM hcl.Expression `hcl:"cost_ram,optional"`
	CO2CPU  hcl.Expression `hcl:"co2_cpu,optional"`
	CO2GPU  hcl.Expression `hcl:"co2_gpu,optional"`
	CO2RAM  hcl.Expression `hcl:"co2_ram,optional"`
}

type functionBlock struct {
	CostRequests                hcl.Expression `hcl:"cost_requests,optional"`
	CostRAMRequest              hcl.Expression `hcl:"cost_ram_request,optional"`
	CostRAMRequestConcurrency   hcl.Expression `hcl:"cost_ram_request_concurrency,optional"`
	IncrementRAMRequestDuration float64        `hcl:"increment_ram_request_duration,optional"`
	CO2Requests                 hcl.Expression `hcl:"co2_requests,optional"`
	CO2RAMRequest               hcl.Expression `hcl:"co2_ram_request,optional"`
	CO2RAMRequestConcurrency    hcl.Expression `hcl:"co2_ram_request_concurrency,optional"`
}

type storageBlock struct {
	CostGB      hcl.Expression `hcl:"cost_gb,optional"`
	CO2GB       hcl.Expression `hcl:"co2_gb,optional"`
	MinimalSize float64        `hcl:"minimal_size,optional"`
	MaximalSize *float64       `hcl:"maximal_size,optional"`
	Increment   float64        `hcl:"increment,optional"`
	Latency     string         `hcl:"latency,optional"`
	Optimized   string         `hcl:"optimized,optional"`
}

type supportBlock struct {
	RatePercent hcl.Expression `hcl:"rate_percent,optional"`
	MinMonthly  hcl.Expression `hcl:"min_monthly,optional"`
}

// quoteFile is the root of a quote file
type quoteFile struct {
	Quote     quoteBlock      `hcl:"quote,block"`
	Usages    []usageBlock    `hcl:"usage,block"`
	Budgets   []budgetBlock   `hcl:"budget,block"`
	Resources []resourceBlock `hcl:"resource,block"`
}

type quoteBlock struct {
	Name         string         `hcl:"name,label"`
	Location     string         `hcl:"location,optional"`
	License      string         `hcl:"license,optional"`
	Usage        string         `hcl:"usage,optional"`
	Budget       string         `hcl:"budget,optional"`
	Reservation  string         `hcl:"reservation,optional"`
	Optimizer    string         `hcl:"optimizer,optional"`
	TermPrefixes []string       `hcl:"term_prefixes,optional"`
	CurrencyRate hcl.Expression `hcl:"currency_rate,optional"`
}

type usageBlock struct {
	Name     string `hcl:"name,label"`
	Rate     int    `hcl:"rate"`
	Duration int    `hcl:"duration"`
}

type budgetBlock struct {
	Name        string         `hcl:"name,label"`
	InitialCost hcl.Expression `hcl:"initial_cost,optional"`
}

type resourceBlock struct {
	Name        string `hcl:"name,label"`
	Category    string `hcl:"category"`
	MinQuantity *int   `hcl:"min_quantity,optional"`
	MaxQuantity *int   `hcl:"max_quantity,optional"`
	Usage       string `hcl:"usage,optional"`
	Budget      string `hcl:"budget,optional"`

	CPU             float64       `hcl:"cpu,optional"`
	CPUMax          *float64      `hcl:"cpu_max,optional"`
	RAM             float64       `hcl:"ram,optional"`
	RAMMax          *float64      `hcl:"ram_max,optional"`
	GPU             float64       `hcl:"gpu,optional"`
	OS              string        `hcl:"os,optional"`
	Engine          string        `hcl:"engine,optional"`
	Edition         string        `hcl:"edition,optional"`
	License         string        `hcl:"license,optional"`
	Software        string        `hcl:"software,optional"`
	Processor       string        `hcl:"processor,optional"`
	Physical        *bool         `hcl:"physical,optional"`
	Constant        *bool         `hcl:"constant,optional"`
	AutoScale       bool          `hcl:"auto_scale,optional"`
	Location        string        `hcl:"location,optional"`
	TermPrefixes    []string      `hcl:"term_prefixes,optional"`
	Reservation     string        `hcl:"reservation,optional"`
	Optimizer       string        `hcl:"optimizer,optional"`
	Size            float64       `hcl:"size,optional"`
	Latency         string        `hcl:"latency,optional"`
	Optimized       string        `hcl:"optimized,optional"`
	Requests        float64       `hcl:"requests,optional"`
	RequestDuration float64       `hcl:"request_duration,optional"`
	Concurrency     float64       `hcl:"concurrency,optional"`
	RateClasses     *ratingsBlock `hcl:"rate_classes,block"`
}
