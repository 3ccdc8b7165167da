package model

// Merge modes for secondary sources
const (
	MergeStrict  = "strict"  // abort on a row whose key prefix is missing from the tree
	MergeLenient = "lenient" // create the missing branch and report the row as an orphan
)

// Source represents one dataset of the job and its metadata document
type Source struct {
	Name        string `json:"name"`            // e.g. transport, month, income
	Type        string `json:"type"`            // csv, xlsx (empty = from extension)
	URL         string `json:"url"`             // path of the tabular file
	MetadataURL string `json:"metadataUrl"`     // path of the metadata JSON
	MetadataKey string `json:"metadataKey"`     // key under "metadata" in the output
	Link        string `json:"link"`            // databrowser link copied into the metadata record
	Column      string `json:"column"`          // varying dimension of this dataset
	Label       string `json:"label,omitempty"` // output label of Column (defaults to Column)
}

// DimensionLabel returns the output label for the source's varying column.
func (s Source) DimensionLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Column
}

// Export defines export targets
type Export struct {
	File string `json:"file"` // e.g. tourism_eurostat.json
}

// StoreConfig points the run log at a SQLite database
type StoreConfig struct {
	DB string `json:"db"` // ":memory:" keeps nothing between runs
}

// PipelineJobSpec defines the entire pipeline configuration.
// Sources[0] is pivoted into the tree; every later source is merged into it.
type PipelineJobSpec struct {
	Sources     []Source    `json:"sources"`
	KeyColumns  []string    `json:"keyColumns"`  // shared prefix: geo, TIME_PERIOD, c_dest, purpose, duration
	FieldNames  []string    `json:"fieldNames"`  // output labels, one per key column plus trailing extras
	ValueColumn string      `json:"valueColumn"` // observation value
	MergeMode   string      `json:"mergeMode"`   // strict or lenient
	Export      Export      `json:"export"`
	Store       StoreConfig `json:"store"`
}

// PrimaryKeyColumns is the full pivot path of the first source.
func (j PipelineJobSpec) PrimaryKeyColumns() []string {
	cols := append([]string{}, j.KeyColumns...)
	if len(j.Sources) > 0 {
		cols = append(cols, j.Sources[0].Column)
	}
	return cols
}

// PrimaryFieldNames returns the labels used when pivoting the first source.
// Missing entries fall back to the column identifier.
func (j PipelineJobSpec) PrimaryFieldNames() []string {
	cols := j.PrimaryKeyColumns()
	labels := make([]string, len(cols))
	for i, col := range cols {
		labels[i] = col
		if i < len(j.FieldNames) && j.FieldNames[i] != "" {
			labels[i] = j.FieldNames[i]
		}
	}
	if len(j.Sources) > 0 && j.Sources[0].Label != "" {
		labels[len(labels)-1] = j.Sources[0].Label
	}
	return labels
}

// PrefixLabels returns the labels of the shared key prefix.
func (j PipelineJobSpec) PrefixLabels() []string {
	return j.PrimaryFieldNames()[:len(j.KeyColumns)]
}

// RequiredColumns lists the columns a source must provide.
func (j PipelineJobSpec) RequiredColumns(src Source) []string {
	cols := append([]string{}, j.KeyColumns...)
	return append(cols, src.Column, j.ValueColumn)
}

// DefaultJob returns the Eurostat tourism job: trips by main mode of transport,
// by month of departure and by household income quartile.
func DefaultJob() PipelineJobSpec {
	return PipelineJobSpec{
		Sources: []Source{
			{
				Name:        "transport",
				URL:         "data/Trips_by_main_mode_of_transport.csv",
				MetadataURL: "data/Trips_by_main_mode_of_transport.json",
				MetadataKey: "source_transport",
				Link:        "https://ec.europa.eu/eurostat/databrowser/view/tour_dem_tttr/default/table?lang=en",
				Column:      "tra_mode",
			},
			{
				Name:        "month",
				URL:         "data/Trips_by_month_of_departure.csv",
				MetadataURL: "data/Trips_by_month_of_departure.json",
				MetadataKey: "source_month",
				Link:        "https://ec.europa.eu/eurostat/databrowser/view/tour_dem_ttmd/default/table?lang=en",
				Column:      "month",
			},
			{
				Name:        "income",
				URL:         "data/Trips_by_household_income_quartile_of_the_tourist.csv",
				MetadataURL: "data/Trips_by_household_income_quartile_of_the_tourist.json",
				MetadataKey: "source_income",
				Link:        "https://ec.europa.eu/eurostat/databrowser/view/tour_dem_ttinc/default/table?lang=en",
				Column:      "quant_inc",
			},
		},
		KeyColumns:  []string{"geo", "TIME_PERIOD", "c_dest", "purpose", "duration"},
		FieldNames:  []string{"geo", "TIME_PERIOD", "c_dest", "purpose", "duration", "tra_mode", "month"},
		ValueColumn: "OBS_VALUE",
		MergeMode:   MergeStrict,
		Export:      Export{File: "tourism_eurostat.json"},
		Store:       StoreConfig{DB: ":memory:"},
	}
}
