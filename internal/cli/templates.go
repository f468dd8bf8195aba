package cli

import "github.com/jplusplus/nwcharts/pkg/chart"

// starters are the definitions written by "nwcharts new", one per chart type.
var starters = map[string]string{
	chart.SerialChart: `chart: SerialChart
width: 800
height: 450
title: Unemployment rate
subtitle: Share of the labour force
note: "Source: Statistics Sweden"
units: percent
labels: [Sweden, Norway]
data:
  - - ["2016-01-01", 0.071]
    - ["2017-01-01", 0.067]
    - ["2018-01-01", 0.064]
    - ["2019-01-01", 0.068]
    - ["2020-01-01", 0.083]
  - - ["2016-01-01", 0.047]
    - ["2017-01-01", 0.042]
    - ["2018-01-01", 0.038]
    - ["2019-01-01", 0.037]
    - ["2020-01-01", 0.046]
`,
	chart.SeasonalChart: `chart: SeasonalChart
width: 800
height: 450
title: Monthly visitors
subtitle: This year against last year
units: number
interval: monthly
data:
  - - ["2023-01-01", 1200]
    - ["2023-02-01", 1350]
    - ["2023-03-01", 1500]
    - ["2023-04-01", 1720]
    - ["2024-01-01", 1310]
    - ["2024-02-01", 1400]
    - ["2024-03-01", 1630]
`,
	chart.CategoricalChart: `chart: CategoricalChart
width: 600
height: 400
title: Population by city
units: number
bar_orientation: horizontal
data:
  - - [Stockholm, 984748]
    - [Göteborg, 604616]
    - [Malmö, 362133]
    - [Uppsala, 243216]
`,
	chart.CategoricalChartWithReference: `chart: CategoricalChartWithReference
width: 600
height: 400
title: Turnout by region
subtitle: Compared to the previous election
units: percent
labels: ["2022", "2018"]
data:
  - - [North, 0.81]
    - [South, 0.86]
    - [East, 0.84]
  - - [North, 0.83]
    - [South, 0.85]
    - [East, 0.87]
`,
	chart.ProgressChart: `chart: ProgressChart
width: 600
height: 300
title: Vaccination coverage
units: percent
target: 0.9
data:
  - - [Dose 1, 0.86]
    - [Dose 2, 0.78]
    - [Dose 3, 0.51]
`,
	chart.ScatterPlot: `chart: ScatterPlot
width: 600
height: 600
title: Income and education
xlabel: Median income (kSEK)
ylabel: Share with a degree
highlight: [Danderyd]
data:
  - - [312, 0.41, Solna]
    - [420, 0.58, Danderyd]
    - [245, 0.22, Eskilstuna]
    - [268, 0.31, Lund]
`,
	chart.RangePlot: `chart: RangePlot
width: 600
height: 300
title: Employment rate
subtitle: 2010 and 2020
units: percent
labels: ["2010", "2020"]
data:
  - - [Women, 0.72, 0.77]
    - [Men, 0.77, 0.80]
`,
	chart.StripeChart: `chart: StripeChart
width: 800
height: 200
title: Yearly mean temperature
units: degrees
baseline: 6.5
data:
  - - ["2015", 7.1]
    - ["2016", 6.9]
    - ["2017", 6.4]
    - ["2018", 7.3]
    - ["2019", 7.0]
    - ["2020", 7.8]
`,
	chart.ChoroplethMap: `chart: ChoroplethMap
width: 500
height: 700
title: Unemployment by county
units: percent
base_map: se-7
binning: quantile
data:
  - - [SE-01, 0.071]
    - [SE-12, 0.094]
    - [SE-14, 0.076]
`,
	chart.DatawrapperChart: `chart: DatawrapperChart
width: 600
height: 400
title: Unemployment rate
labels: [Sweden]
dw_data:
  type: d3-lines
data:
  - - ["2019", 0.068]
    - ["2020", 0.083]
`,
}
