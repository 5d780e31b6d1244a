package catalog

import "github.com/macroview/indicator-engine/series"

// defaultPriority lists the headline series surfaced first in the
// recent-updates feed.
var defaultPriority = []string{
	"UNRATE", "PAYEMS", "CPIAUCSL", "CPILFESL", "GDPC1",
	"FEDFUNDS", "GS10", "HOUST", "RSAFS", "INDPRO",
}

// Default returns the built-in registry of tracked indicators.
func Default() *Registry {
	r, err := New(defaultSections(), defaultPriority)
	if err != nil {
		// The built-in catalog is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}

func defaultSections() []Section {
	return []Section{
		{
			Name: "LABOR MARKET",
			Indicators: []Indicator{
				{
					ID:          "UNRATE",
					Name:        "Unemployment Rate",
					Description: "The percentage of the labor force that is unemployed and actively seeking employment.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "PAYEMS",
					Name:        "Nonfarm Payrolls",
					Description: "The total number of paid employees in the U.S. excluding farm workers, government employees, and employees of nonprofits.",
					Unit:        "thousands",
					Format:      series.FormatNumber,
				},
				{
					ID:          "CIVPART",
					Name:        "Labor Force Participation Rate",
					Description: "The percentage of the working-age population that is either employed or actively looking for work.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "ICSA",
					Name:        "Initial Jobless Claims",
					Description: "The number of first-time claims for unemployment insurance, indicating the pace of layoffs in the economy.",
					Unit:        "number",
					Format:      series.FormatNumber,
				},
				{
					ID:          "JTSJOL",
					Name:        "Job Openings",
					Description: "The total number of job openings available, indicating labor demand and economic strength.",
					Unit:        "thousands",
					Format:      series.FormatNumber,
				},
				{
					ID:          "CES0500000003",
					Name:        "Average Hourly Earnings",
					Description: "The average hourly wage for all employees on private nonfarm payrolls, indicating wage growth trends.",
					Unit:        "dollars",
					Format:      series.FormatCurrency,
				},
			},
		},
		{
			Name: "INFLATION",
			Indicators: []Indicator{
				{
					ID:          "CPIAUCSL",
					Name:        "Consumer Price Index (CPI)",
					Description: "Measures the average change in prices paid by consumers for goods and services over time.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "CPILFESL",
					Name:        "Core CPI",
					Description: "CPI excluding food and energy prices, providing a clearer view of underlying inflation trends.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "PCEPI",
					Name:        "Personal Consumption Expenditures Price Index (PCE)",
					Description: "The Federal Reserve's preferred inflation measure, tracking price changes in consumer spending.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "PCEPILFE",
					Name:        "Core PCE Price Index",
					Description: "PCE excluding food and energy, used by the Fed to guide monetary policy decisions.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "PPIACO",
					Name:        "Producer Price Index (PPI)",
					Description: "Measures the average change in selling prices received by producers for their output.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
			},
		},
		{
			Name: "OUTPUT & GROWTH",
			Indicators: []Indicator{
				{
					ID:          "GDPC1",
					Name:        "Real Gross Domestic Product (GDP)",
					Description: "The total value of all goods and services produced, adjusted for inflation.",
					Unit:        "billions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "INDPRO",
					Name:        "Industrial Production Index",
					Description: "Measures the real output of manufacturing, mining, and electric and gas utilities sectors.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "TCU",
					Name:        "Capacity Utilization",
					Description: "The percentage of total industrial capacity currently being utilized in production.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "TSIFRGHT",
					Name:        "Freight Transportation Services Index",
					Description: "Measures the volume of freight movement across the U.S. and signals trends in industrial activity and supply chain demand.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "RSAFS",
					Name:        "Retail Sales",
					Description: "The total receipts of retail stores, indicating consumer spending strength.",
					Unit:        "millions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "TOTALSA",
					Name:        "Auto Sales",
					Description: "Total vehicle sales in the U.S., a key indicator of consumer confidence and economic health.",
					Unit:        "millions",
					Format:      series.FormatNumber,
				},
			},
		},
		{
			Name: "HOUSING & CONSTRUCTION",
			Indicators: []Indicator{
				{
					ID:          "HOUST",
					Name:        "Housing Starts",
					Description: "The number of new residential construction projects begun, indicating housing market strength.",
					Unit:        "thousands",
					Format:      series.FormatNumber,
				},
				{
					ID:          "PERMIT",
					Name:        "Building Permits",
					Description: "Permits issued for new construction, a leading indicator of housing activity.",
					Unit:        "thousands",
					Format:      series.FormatNumber,
				},
				{
					ID:          "HSN1F",
					Name:        "New Home Sales",
					Description: "The number of newly built homes sold, reflecting housing demand and economic health.",
					Unit:        "thousands",
					Format:      series.FormatNumber,
				},
				{
					ID:          "EXHOSLUSM495S",
					Name:        "Existing Home Sales",
					Description: "The number of previously owned homes sold, indicating overall housing market activity.",
					Unit:        "number",
					Format:      series.FormatNumber,
				},
				{
					ID:          "CSUSHPINSA",
					Name:        "Case-Shiller Home Price Index",
					Description: "Tracks changes in home prices across major U.S. metropolitan areas.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
			},
		},
		{
			Name: "MONETARY POLICY & BANKING",
			Indicators: []Indicator{
				{
					ID:          "FEDFUNDS",
					Name:        "Effective Federal Funds Rate",
					Description: "The interest rate at which banks lend to each other overnight, set by the Federal Reserve.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "GS10",
					Name:        "10-Year Treasury Yield",
					Description: "The yield on 10-year U.S. Treasury bonds, a benchmark for long-term interest rates.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "MPRIME",
					Name:        "Bank Prime Loan Rate",
					Description: "The interest rate banks charge their most creditworthy customers.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "M2SL",
					Name:        "M2 Money Supply",
					Description: "The total amount of money in circulation including cash, checking deposits, and savings.",
					Unit:        "billions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "WALCL",
					Name:        "Total Assets of the Federal Reserve",
					Description: "The total assets on the Federal Reserve's balance sheet, indicating monetary policy stance.",
					Unit:        "millions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "GFDEGDQ188S",
					Name:        "Total Public Debt As % Of GDP",
					Description: "The total federal debt as a percentage of total GDP, assessing the country's financial sustainability.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
			},
		},
		{
			Name: "CREDIT & LENDING",
			Indicators: []Indicator{
				{
					ID:          "TOTALSL",
					Name:        "Total Consumer Credit Outstanding",
					Description: "The total amount of consumer credit outstanding, including credit cards and auto loans.",
					Unit:        "millions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "DRCLACBS",
					Name:        "Delinquency Rate on Consumer Loans",
					Description: "The percentage of consumer loans that are delinquent, indicating credit quality.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
			},
		},
		{
			Name: "TRADE & EXTERNAL SECTOR",
			Indicators: []Indicator{
				{
					ID:          "NETEXP",
					Name:        "Net Exports (Trade Balance)",
					Description: "The difference between exports and imports, indicating trade competitiveness.",
					Unit:        "billions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "IEABC",
					Name:        "Current Account Balance",
					Description: "The balance of trade, net income, and net current transfers with the rest of the world.",
					Unit:        "millions",
					Format:      series.FormatCurrency,
				},
			},
		},
		{
			Name: "CORPORATE & INVESTMENT",
			Indicators: []Indicator{
				{
					ID:          "CPATAX",
					Name:        "Corporate Profits After Tax",
					Description: "Total after-tax profits of U.S. corporations, indicating business profitability.",
					Unit:        "billions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "ISRATIO",
					Name:        "Inventory-to-Sales Ratio",
					Description: "The ratio of business inventories to sales, indicating supply chain efficiency and demand.",
					Unit:        "ratio",
					Format:      series.FormatNumber,
				},
				{
					ID:          "GPDI",
					Name:        "Gross Private Domestic Investment",
					Description: "Business investment in equipment, structures, and inventories, indicating economic confidence.",
					Unit:        "billions",
					Format:      series.FormatCurrency,
				},
				{
					ID:          "BOGZ1FA105050005Q",
					Name:        "Nonfinancial Corporate Business CapEx",
					Description: "Reflects investment by nonfinancial corporations in long-term assets like property, plant, equipment, and software, indicating future productivity.",
					Unit:        "millions",
					Format:      series.FormatCurrency,
				},
			},
		},
		{
			Name: "SENTIMENT & LEADING INDICATORS",
			Indicators: []Indicator{
				{
					ID:          "UMCSENT",
					Name:        "University of Michigan Consumer Sentiment",
					Description: "A measure of consumer confidence and expectations about the economy.",
					Unit:        "index",
					Format:      series.FormatNumber,
				},
				{
					ID:          "ATLSBUSRGEP",
					Name:        "Business Expectations of Sales Revenue Growth",
					Description: "Survey-based indicator measuring firms' projections for their own sales revenue growth over the next 12 months.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "T10Y3M",
					Name:        "Treasury Yield Curve Spread (10Y - 3M)",
					Description: "The spread between 10-year and 3-month Treasury yields, often used to predict recessions.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
				{
					ID:          "BAMLC0A1CAAA",
					Name:        "ICE BofA AAA Corporate Index Spread (AAA - 10Y)",
					Description: "The spread between AAA corporate bond and 10-year Treasury yields, often used as an indicator for investor outlook on credit risk.",
					Unit:        "percent",
					Format:      series.FormatPercentage,
				},
			},
		},
	}
}
